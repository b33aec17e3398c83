package task

import (
	"fmt"
	"path"
	"runtime"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"

	"github.com/mediaprobe/MediaProbe/src/global"
	"github.com/mediaprobe/MediaProbe/src/job"
	"github.com/mediaprobe/MediaProbe/src/parsers"
	"github.com/mediaprobe/MediaProbe/src/probe"
	"github.com/mediaprobe/MediaProbe/src/reader"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func Listen(ctx global.Context) {
	msgCh, err := ctx.Instances().Rmq.Subscribe(ctx.Config().Rmq.JobQueueName)
	if err != nil {
		logrus.Fatal("failed to listen to jobs: ", err)
	}

	maxProcs := runtime.GOMAXPROCS(0)
	workers := make(chan *taskWorker, maxProcs)
	for i := 0; i < maxProcs; i++ {
		workers <- &taskWorker{
			cb: workers,
		}
	}

	for msg := range msgCh {
		worker := <-workers
		go worker.process(ctx, msg)
	}
}

type taskWorker struct {
	cb chan *taskWorker
}

func (w *taskWorker) process(ctx global.Context, msg amqp.Delivery) {
	ctx.AddTask(1)
	defer func() {
		ctx.DoneTask()
		w.cb <- w
	}()

	j := job.Job{}

	if err := json.Unmarshal(msg.Body, &j); err != nil {
		logrus.Warn("bad job message: ", err)
		if err := msg.Reject(false); err != nil {
			logrus.Warn("failed to reject: ", err)
		}
		return
	}

	if j.ID == "" {
		j.ID = uuid.NewString()
	}

	logrus.Info("starting new job: ", j.ID)

	results, err := run(ctx, j)
	if err != nil {
		if err := msg.Reject(false); err != nil {
			logrus.Warn("failed to reject: ", err)
		}
		logrus.Errorf("job failed %s: %s", j.ID, err.Error())
	} else {
		if err := msg.Ack(false); err != nil {
			logrus.Warn("failed to ack: ", err)
		}
	}

	errStr := ""
	if err != nil {
		errStr = err.Error()
	}
	if results == nil {
		results = []probe.Result{}
	}

	resp, _ := json.Marshal(job.Result{
		JobID:     j.ID,
		Success:   err == nil,
		Ambiguous: len(results) > 1,
		Results:   results,
		Error:     errStr,
	})

	if err := ctx.Instances().Rmq.Publish(ctx.Config().Rmq.ResultQueueName, "application/json", amqp.Persistent, resp); err != nil {
		logrus.Error("failed to publish result: ", err)
	}

	logrus.Info("finished job: ", j.ID)
}

func run(ctx global.Context, j job.Job) ([]probe.Result, error) {
	opts := parsers.Options{
		All:         j.All,
		Natures:     probe.Natures(j.Natures),
		Formats:     j.Formats,
		Headers:     j.Headers,
		MaxRequests: ctx.Config().Http.MaxRequests,
		MaxBytes:    ctx.Config().Http.MaxBytes,
	}

	switch j.Provider {
	case job.LocalProvider:
		return parsers.ParseFile(j.Path, opts)

	case job.HTTPProvider:
		return parsers.ParseHTTP(j.URL, opts)

	case job.AwsProvider:
		if ctx.Instances().AwsS3 == nil {
			return nil, fmt.Errorf("aws provider requested but aws is not configured")
		}
		src := ctx.Instances().AwsS3.OpenObject(j.Bucket, j.Key, reader.S3Options{
			MaxRequests: ctx.Config().Http.MaxRequests,
			MaxBytes:    ctx.Config().Http.MaxBytes,
		})
		defer src.Close()
		return parsers.Default().ParseSource(src, path.Base(j.Key), opts)

	default:
		return nil, fmt.Errorf("unknown provider: %s", j.Provider)
	}
}
