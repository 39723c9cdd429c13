package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// FeeSchedule is the single source of truth for customer-facing fees.
// Both the transaction writer and the commission simulator price against it,
// so the simulated "standard fee" can never drift from the fee stored on
// real transactions.
type FeeSchedule struct {
	// FeeFixed is charged per transaction in currency units.
	FeeFixed decimal.Decimal `mapstructure:"-"`
	// FeePercent is charged as a percentage of the transaction amount.
	FeePercent decimal.Decimal `mapstructure:"-"`
}

// feeScheduleFile is the YAML shape; amounts are decoded from strings so
// "2.5" survives without float drift.
type feeScheduleFile struct {
	FeeFixed   string `mapstructure:"feeFixed"`
	FeePercent string `mapstructure:"feePercent"`
}

// DefaultFeeSchedule matches the fee fields the operation ships with.
func DefaultFeeSchedule() FeeSchedule {
	return FeeSchedule{
		FeeFixed:   decimal.NewFromInt(10),
		FeePercent: decimal.RequireFromString("2.5"),
	}
}

// FeeScheduleHolder serves the current fee schedule and hot-reloads it when
// the backing file changes. Invalid updates are ignored, the previous
// schedule stays in force.
type FeeScheduleHolder struct {
	current atomic.Value // holds FeeSchedule
}

func NewFeeScheduleHolder() (*FeeScheduleHolder, error) {
	v := viper.New()

	v.SetConfigName("fees")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/cashtrail")
	v.AddConfigPath(".")

	v.SetEnvPrefix("CASHTRAIL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	holder := &FeeScheduleHolder{}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		holder.current.Store(DefaultFeeSchedule())
		return holder, nil
	}

	schedule, err := decodeFeeSchedule(v)
	if err != nil {
		return nil, err
	}
	holder.current.Store(schedule)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		updated, err := decodeFeeSchedule(v)
		if err != nil {
			log.Printf("[fee-schedule] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[fee-schedule] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticFeeScheduleHolder wraps a fixed schedule, used by tests and seeds.
func NewStaticFeeScheduleHolder(schedule FeeSchedule) (*FeeScheduleHolder, error) {
	if err := validateFeeSchedule(schedule); err != nil {
		return nil, err
	}
	holder := &FeeScheduleHolder{}
	holder.current.Store(schedule)
	return holder, nil
}

func (h *FeeScheduleHolder) Get() FeeSchedule {
	return h.current.Load().(FeeSchedule)
}

func decodeFeeSchedule(v *viper.Viper) (FeeSchedule, error) {
	var file feeScheduleFile
	if err := v.UnmarshalKey("fees", &file); err != nil {
		return FeeSchedule{}, err
	}

	schedule := DefaultFeeSchedule()
	if strings.TrimSpace(file.FeeFixed) != "" {
		fixed, err := decimal.NewFromString(strings.TrimSpace(file.FeeFixed))
		if err != nil {
			return FeeSchedule{}, err
		}
		schedule.FeeFixed = fixed
	}
	if strings.TrimSpace(file.FeePercent) != "" {
		percent, err := decimal.NewFromString(strings.TrimSpace(file.FeePercent))
		if err != nil {
			return FeeSchedule{}, err
		}
		schedule.FeePercent = percent
	}

	if err := validateFeeSchedule(schedule); err != nil {
		return FeeSchedule{}, err
	}
	return schedule, nil
}

func validateFeeSchedule(schedule FeeSchedule) error {
	if schedule.FeeFixed.IsNegative() {
		return errors.New("fees.feeFixed cannot be negative")
	}
	if schedule.FeePercent.IsNegative() {
		return errors.New("fees.feePercent cannot be negative")
	}
	return nil
}
