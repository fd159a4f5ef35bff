package yabackoff

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/YaCodeDev/GoYaCodeDevAsync/yaerrors"
)

// Params carries every knob a Strategy may need; each kind reads only its own.
type Params struct {
	Initial    time.Duration
	Increment  time.Duration
	Multiplier float64
	MaxDelay   time.Duration
	Schedule   []time.Duration
}

// Parse builds the Strategy named by kind (case-insensitive).
//
// Example:
//
//	strategy, err := yabackoff.Parse("linear", yabackoff.Params{Initial: time.Second, Increment: time.Second})
func Parse(kind string, params Params) (Strategy, yaerrors.Error) {
	switch Kind(strings.ToLower(strings.TrimSpace(kind))) {
	case KindConstant:
		return Constant{Delay: params.Initial}, nil
	case KindLinear:
		return Linear{Initial: params.Initial, Increment: params.Increment}, nil
	case KindExponential:
		return Exponential{
			Initial:    params.Initial,
			Multiplier: params.Multiplier,
			MaxDelay:   params.MaxDelay,
		}, nil
	case KindSchedule:
		return Schedule{Delays: params.Schedule}, nil
	default:
		return nil, yaerrors.FromError(
			http.StatusBadRequest,
			ErrUnknownKind,
			fmt.Sprintf("[BACKOFF] cannot build strategy `%s`", kind),
		)
	}
}
