package yatask_test

import (
	"io"

	"github.com/YaCodeDev/GoYaCodeDevAsync/yalogger"
	"github.com/YaCodeDev/GoYaCodeDevAsync/yatask"
)

type (
	intTask    = yatask.Simple[int]
	intOption  = yatask.Option[int, string, yatask.Tags]
	intGroup   = yatask.SimpleGroup[int]
	intSuccess = yatask.SuccessTask[int, string, yatask.Tags]
	intFailure = yatask.FailureTask[int, string, yatask.Tags]
	intRunning = yatask.RunningTask[int, string, yatask.Tags]
)

func label(value string) intOption {
	return yatask.Labeled[int, string, yatask.Tags](value)
}

func tags(values ...string) intOption {
	return yatask.Tagged[int, string](yatask.NewTags(values...))
}

func seed(value int) intOption {
	return yatask.Seeded[int, string, yatask.Tags](value)
}

func pending(opts ...intOption) yatask.PendingTask[int, string, yatask.Tags] {
	return yatask.NewPending(opts...)
}

func success(data int, opts ...intOption) intSuccess {
	return yatask.NewSuccess(data, opts...)
}

func failure(err error, opts ...intOption) intFailure {
	return yatask.NewFailure(err, "", opts...)
}

func running(opts ...intOption) intRunning {
	return yatask.NewRunning(opts...)
}

func quietLogger() yalogger.Logger {
	return yalogger.NewBaseLogger(&yalogger.Config{
		BaseLoggerType: yalogger.Logrus,
		Level:          yalogger.PanicLevel,
		Output:         io.Discard,
	}).NewLogger()
}
