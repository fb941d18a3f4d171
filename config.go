package twig

import (
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config holds the engine settings and the defaults applied to every new
// tween. Start from DefaultConfig; the zero value is not usable.
type Config struct {
	// SafeMode recovers panics raised by getters, setters and callbacks. A
	// tween whose getter or setter panics is killed; a panicking callback
	// is logged and skipped.
	SafeMode bool `yaml:"safe_mode"`
	// Debug turns API misuse (controlling a nested or killed tween) into
	// panics and logs per-sweep statistics. Otherwise misuse is a no-op.
	Debug bool `yaml:"debug"`
	// NestedFailure is the policy for sequences whose children fail.
	NestedFailure NestedFailure `yaml:"nested_failure"`

	DefaultAutoPlay                 AutoPlay   `yaml:"default_autoplay"`
	DefaultAutoKill                 bool       `yaml:"default_autokill"`
	DefaultEase                     Ease       `yaml:"default_ease"`
	DefaultEaseOvershootOrAmplitude float64    `yaml:"default_ease_overshoot_or_amplitude"`
	DefaultEasePeriod               float64    `yaml:"default_ease_period"`
	DefaultLoopType                 LoopType   `yaml:"default_loop_type"`
	DefaultUpdateType               UpdateType `yaml:"default_update_type"`
	DefaultTimeScaleIndependent     bool       `yaml:"default_timescale_independent"`

	// Initial capacities. Both grow automatically when exceeded.
	TweenerCapacity  int `yaml:"tweener_capacity"`
	SequenceCapacity int `yaml:"sequence_capacity"`

	// TimeScale multiplies the normal delta time of every update.
	TimeScale float64 `yaml:"timescale"`

	// Seed feeds the random source used by Shake. Zero seeds from the clock.
	Seed uint64 `yaml:"seed"`

	// LogLevel builds a JSON logger with NewLogger when Logger is nil.
	// Empty disables logging.
	LogLevel string      `yaml:"log_level"`
	Logger   *zap.Logger `yaml:"-"`
}

// DefaultConfig returns the default engine settings: safe mode on, tweens
// autoplay and autokill, OutQuad easing.
func DefaultConfig() Config {
	return Config{
		SafeMode:                        true,
		NestedFailure:                   KillWholeSequence,
		DefaultAutoPlay:                 AutoPlayAll,
		DefaultAutoKill:                 true,
		DefaultEase:                     OutQuad,
		DefaultEaseOvershootOrAmplitude: DefaultOvershoot,
		DefaultEasePeriod:               0,
		DefaultLoopType:                 LoopRestart,
		DefaultUpdateType:               UpdateNormal,
		TweenerCapacity:                 200,
		SequenceCapacity:                50,
		TimeScale:                       1,
	}
}

// Validate reports every out-of-range setting.
func (c Config) Validate() error {
	var errs []error
	if c.TweenerCapacity <= 0 {
		errs = append(errs, fmt.Errorf("%w: tweener capacity %d", ErrInvalidConfig, c.TweenerCapacity))
	}
	if c.SequenceCapacity <= 0 {
		errs = append(errs, fmt.Errorf("%w: sequence capacity %d", ErrInvalidConfig, c.SequenceCapacity))
	}
	if c.TimeScale < 0 {
		errs = append(errs, fmt.Errorf("%w: time scale %g", ErrInvalidConfig, c.TimeScale))
	}
	if c.DefaultEase >= Custom {
		errs = append(errs, fmt.Errorf("%w: default ease %v", ErrInvalidConfig, c.DefaultEase))
	}
	if int(c.DefaultLoopType) >= len(loopTypeNames) {
		errs = append(errs, fmt.Errorf("%w: default loop type %v", ErrInvalidConfig, c.DefaultLoopType))
	}
	if c.DefaultUpdateType >= updateTypeCount {
		errs = append(errs, fmt.Errorf("%w: default update type %v", ErrInvalidConfig, c.DefaultUpdateType))
	}
	if int(c.DefaultAutoPlay) >= len(autoPlayNames) {
		errs = append(errs, fmt.Errorf("%w: default autoplay %v", ErrInvalidConfig, c.DefaultAutoPlay))
	}
	if int(c.NestedFailure) >= len(nestedFailureNames) {
		errs = append(errs, fmt.Errorf("%w: nested failure policy %v", ErrInvalidConfig, c.NestedFailure))
	}
	return errors.Join(errs...)
}

// LoadConfig decodes a YAML document over DefaultConfig. Keys that are not
// present keep their default.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return DefaultConfig(), fmt.Errorf("twig: decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return DefaultConfig(), fmt.Errorf("twig: %w", err)
	}
	return cfg, nil
}

var (
	loopTypeNames      = [...]string{"Restart", "Yoyo", "Incremental"}
	updateTypeNames    = [...]string{"Normal", "Late", "Fixed", "Manual"}
	autoPlayNames      = [...]string{"All", "None", "Tweeners", "Sequences"}
	nestedFailureNames = [...]string{"KillWholeSequence", "TryToPreserveSequence"}
)

func enumName(names []string, v uint8, kind string) string {
	if int(v) < len(names) {
		return names[v]
	}
	return fmt.Sprintf("%s(%d)", kind, v)
}

func parseEnum(names []string, text string, errUnknown error) (uint8, error) {
	for i, n := range names {
		if n == text {
			return uint8(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", errUnknown, text)
}

func (l LoopType) String() string { return enumName(loopTypeNames[:], uint8(l), "LoopType") }

// MarshalText implements encoding.TextMarshaler.
func (l LoopType) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *LoopType) UnmarshalText(text []byte) error {
	v, err := parseEnum(loopTypeNames[:], string(text), ErrUnknownLoopType)
	if err != nil {
		return err
	}
	*l = LoopType(v)
	return nil
}

func (u UpdateType) String() string { return enumName(updateTypeNames[:], uint8(u), "UpdateType") }

// MarshalText implements encoding.TextMarshaler.
func (u UpdateType) MarshalText() ([]byte, error) { return []byte(u.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *UpdateType) UnmarshalText(text []byte) error {
	v, err := parseEnum(updateTypeNames[:], string(text), ErrUnknownUpdateType)
	if err != nil {
		return err
	}
	*u = UpdateType(v)
	return nil
}

func (a AutoPlay) String() string { return enumName(autoPlayNames[:], uint8(a), "AutoPlay") }

// MarshalText implements encoding.TextMarshaler.
func (a AutoPlay) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *AutoPlay) UnmarshalText(text []byte) error {
	v, err := parseEnum(autoPlayNames[:], string(text), ErrUnknownAutoPlay)
	if err != nil {
		return err
	}
	*a = AutoPlay(v)
	return nil
}

func (n NestedFailure) String() string {
	return enumName(nestedFailureNames[:], uint8(n), "NestedFailure")
}

// MarshalText implements encoding.TextMarshaler.
func (n NestedFailure) MarshalText() ([]byte, error) { return []byte(n.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (n *NestedFailure) UnmarshalText(text []byte) error {
	v, err := parseEnum(nestedFailureNames[:], string(text), ErrUnknownFailurePolicy)
	if err != nil {
		return err
	}
	*n = NestedFailure(v)
	return nil
}
