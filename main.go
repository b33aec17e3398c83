package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/bugsnag/panicwrap"
	"github.com/hashicorp/go-multierror"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/mediaprobe/MediaProbe/src/aws"
	"github.com/mediaprobe/MediaProbe/src/configure"
	"github.com/mediaprobe/MediaProbe/src/global"
	"github.com/mediaprobe/MediaProbe/src/parsers"
	"github.com/mediaprobe/MediaProbe/src/probe"
	"github.com/mediaprobe/MediaProbe/src/rmq"
	"github.com/mediaprobe/MediaProbe/src/task"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	Version = "development"
	Unix    = ""
	Time    = "unknown"
	User    = "unknown"
)

func init() {
	if i, err := strconv.Atoi(Unix); err == nil {
		Time = time.Unix(int64(i), 0).Format(time.RFC3339)
	}
}

func main() {
	config := configure.New()

	exitStatus, err := panicwrap.BasicWrap(func(s string) {
		logrus.Error(s)
	})
	if err != nil {
		logrus.Error("failed to setup panic handler: ", err)
		os.Exit(2)
	}

	if exitStatus >= 0 {
		os.Exit(exitStatus)
	}

	if !config.NoHeader {
		logrus.Info("MediaProbe")
		logrus.Infof("Version: %s", Version)
		logrus.Infof("build.Time: %s", Time)
		logrus.Infof("build.User: %s", User)
	}

	if args := pflag.Args(); len(args) > 0 {
		os.Exit(runOnce(config, args))
	}

	if config.Rmq.ServerURL == "" {
		logrus.Fatal("nothing to do: pass files/urls as arguments or configure rmq for worker mode")
	}

	logrus.Debug("MaxProcs: ", runtime.GOMAXPROCS(0))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	c, cancel := context.WithCancel(context.Background())

	ctx := global.New(c, config)

	ctx.Instances().Rmq = rmq.New(ctx)
	if ctx.Config().Aws.Region != "" {
		ctx.Instances().AwsS3 = aws.NewS3(ctx)
	}

	go task.Listen(ctx)

	logrus.Info("running")

	done := make(chan struct{})
	go func() {
		<-sig
		cancel()
		go func() {
			select {
			case <-time.After(time.Minute):
			case <-sig:
			}
			logrus.Fatal("force shutdown")
		}()

		logrus.Info("shutting down")

		ctx.Instances().Rmq.Shutdown()

		ctx.Wait()

		close(done)
	}()

	<-done

	logrus.Info("shutdown")
	os.Exit(0)
}

type outputOptions struct {
	Results string   `json:"results"`
	Natures []string `json:"natures,omitempty"`
	Formats []string `json:"formats,omitempty"`
}

type firstOutput struct {
	Source  string        `json:"source"`
	Options outputOptions `json:"options"`
	Result  probe.Result  `json:"result"`
}

type allOutput struct {
	Source    string         `json:"source"`
	Options   outputOptions  `json:"options"`
	Ambiguous bool           `json:"ambiguous"`
	Results   []probe.Result `json:"results"`
}

// runOnce probes each argument and prints a JSON array, one object per
// input. Exit code 0 means at least one input produced a result.
func runOnce(config *configure.Config, args []string) int {
	opts := parsers.Options{
		All:         config.All,
		Natures:     probe.Natures(config.Natures),
		Formats:     config.Formats,
		MaxRequests: config.Http.MaxRequests,
		MaxBytes:    config.Http.MaxBytes,
	}
	if config.Http.TimeoutSeconds > 0 {
		opts.Client = &http.Client{Timeout: time.Second * time.Duration(config.Http.TimeoutSeconds)}
	}

	mode := "first"
	if config.All {
		mode = "all"
	}
	oopts := outputOptions{Results: mode, Natures: config.Natures, Formats: config.Formats}

	var errs error
	matched := 0
	outs := make([]interface{}, 0, len(args))

	for _, arg := range args {
		var results []probe.Result
		var err error
		if strings.HasPrefix(arg, "http://") || strings.HasPrefix(arg, "https://") {
			results, err = parsers.ParseHTTP(arg, opts)
		} else {
			results, err = parsers.ParseFile(arg, opts)
		}
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", arg, err))
		}
		if len(results) > 0 {
			matched++
		}

		if config.All {
			if results == nil {
				results = []probe.Result{}
			}
			outs = append(outs, allOutput{
				Source:    arg,
				Options:   oopts,
				Ambiguous: len(results) > 1,
				Results:   results,
			})
		} else {
			var first probe.Result
			if len(results) > 0 {
				first = results[0]
			}
			outs = append(outs, firstOutput{
				Source:  arg,
				Options: oopts,
				Result:  first,
			})
		}
	}

	if errs != nil {
		logrus.Error(errs)
	}

	b, err := json.MarshalIndent(outs, "", "  ")
	if err != nil {
		logrus.Error("failed to encode output: ", err)
		return 1
	}
	fmt.Println(string(b))

	if matched > 0 {
		return 0
	}
	return 1
}
