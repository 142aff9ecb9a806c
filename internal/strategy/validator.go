package strategy

import (
	"errors"
	"fmt"
	"strings"

	"golang-backtest/internal/dto"
	"golang-backtest/internal/indicator"
	"golang-backtest/internal/model"
	"golang-backtest/pkg/common"
	"golang-backtest/pkg/utils"

	goValidator "github.com/go-playground/validator/v10"
)

const (
	maxStopLossPct = 50.0
	maxFeesBps     = 1000.0
)

var priceOperands = map[string]struct{}{
	"open": {}, "high": {}, "low": {}, "close": {}, "volume": {},
	"hl2": {}, "hlc3": {}, "ohlc4": {},
}

type Checks struct {
	IndicatorsValid          bool `json:"indicators_valid"`
	ConditionsValid          bool `json:"conditions_valid"`
	RiskManagementValid      bool `json:"risk_management_valid"`
	ExecutionParametersValid bool `json:"execution_parameters_valid"`
}

type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	Checks   Checks   `json:"checks"`
}

// Err returns a *model.ValidationError when the config is invalid.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return &model.ValidationError{Errors: r.Errors, Warnings: r.Warnings}
}

type Validator struct {
	validate *goValidator.Validate
}

func NewValidator(validate *goValidator.Validate) *Validator {
	if validate == nil {
		validate = goValidator.New()
	}
	return &Validator{validate: validate}
}

// Validate runs the struct tag rules followed by the domain rules. It never fails
// fast: every problem is collected.
func (v *Validator) Validate(cfg dto.StrategyConfig) ValidationResult {
	res := ValidationResult{
		Errors:   []string{},
		Warnings: []string{},
		Checks: Checks{
			IndicatorsValid:          true,
			ConditionsValid:          true,
			RiskManagementValid:      true,
			ExecutionParametersValid: true,
		},
	}

	if err := v.validate.Struct(cfg); err != nil {
		var fieldErrs goValidator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			res.Errors = append(res.Errors, err.Error())
		}
		for _, fe := range fieldErrs {
			res.addFieldError(fe)
		}
	}

	sg := cfg.SignalGeneration
	for _, ind := range sg.Indicators {
		kind := indicator.Kind(strings.ToLower(ind.Type))
		if indicator.UsesPeriod(kind) && ind.Period <= 0 {
			res.Errors = append(res.Errors, fmt.Sprintf("indicator %s has invalid period: %d", ind.Type, ind.Period))
			res.Checks.IndicatorsValid = false
		}
		if kind == indicator.KindMACD {
			fast, slow := ind.FastPeriod, ind.SlowPeriod
			if fast == 0 {
				fast = indicator.DefaultFastPeriod
			}
			if slow == 0 {
				slow = indicator.DefaultSlowPeriod
			}
			if fast >= slow {
				res.Errors = append(res.Errors, "MACD fast period must be less than slow period")
				res.Checks.IndicatorsValid = false
			}
		}
	}

	if ex := cfg.AssetSelection.Exchange; ex != "" && !utils.ContainsString(common.GetExchangeList(), strings.ToUpper(ex)) {
		res.Warnings = append(res.Warnings, fmt.Sprintf("exchange %q is not a known exchange", ex))
	}

	if len(sg.EntryConditions.Conditions) == 0 {
		res.Errors = append(res.Errors, "no entry conditions defined")
		res.Checks.ConditionsValid = false
	}
	if len(sg.ExitConditions.Conditions) == 0 {
		res.Warnings = append(res.Warnings, "no exit conditions defined - using stop loss/take profit only")
	}
	for _, side := range []struct {
		label string
		expr  dto.LogicalExpression
	}{{"entry", sg.EntryConditions}, {"exit", sg.ExitConditions}} {
		if len(side.expr.Conditions) > 0 && len(side.expr.Operators) != len(side.expr.Conditions)-1 {
			res.Errors = append(res.Errors, fmt.Sprintf("%s conditions: number of operators must be one less than number of conditions", side.label))
			res.Checks.ConditionsValid = false
		}
	}
	res.Warnings = append(res.Warnings, unknownOperands(cfg)...)

	if cfg.ExecutionParameters.QuantityValue <= 0 {
		res.Errors = append(res.Errors, "quantity value must be positive")
		res.Checks.ExecutionParametersValid = false
	}
	if cfg.ExecutionParameters.FeesBps > maxFeesBps {
		res.Warnings = append(res.Warnings, "fees > 10% seem very high")
	}

	rm := cfg.RiskManagement
	if rm.StopLossPct > maxStopLossPct {
		res.Warnings = append(res.Warnings, "stop loss > 50% may be too high")
	}
	if cfg.ExecutionParameters.QuantityType == dto.QuantityRiskBased && rm.StopLossPct <= 0 {
		res.Errors = append(res.Errors, "risk_based sizing requires a positive stop loss")
		res.Checks.RiskManagementValid = false
	}

	res.Valid = len(res.Errors) == 0
	return res
}

func (r *ValidationResult) addFieldError(fe goValidator.FieldError) {
	msg := fmt.Sprintf("%s failed on '%s'", fe.Namespace(), fe.Tag())
	if fe.Param() != "" {
		msg += fmt.Sprintf(" (%s)", fe.Param())
	}
	r.Errors = append(r.Errors, msg)

	ns := fe.Namespace()
	switch {
	case strings.Contains(ns, ".Indicators"):
		r.Checks.IndicatorsValid = false
	case strings.Contains(ns, "Conditions"):
		r.Checks.ConditionsValid = false
	case strings.Contains(ns, ".RiskManagement"):
		r.Checks.RiskManagementValid = false
	case strings.Contains(ns, ".ExecutionParameters"):
		r.Checks.ExecutionParametersValid = false
	}
}

// unknownOperands warns about names that match neither a configured indicator output
// nor a price field. Numeric strings are accepted.
func unknownOperands(cfg dto.StrategyConfig) []string {
	known := make(map[string]struct{})
	for _, ind := range cfg.SignalGeneration.Indicators {
		for _, name := range indicator.OutputNames(ind) {
			known[name] = struct{}{}
		}
	}

	var warnings []string
	seen := make(map[string]struct{})
	check := func(op dto.Operand) {
		if op.Number != nil {
			return
		}
		name := strings.ToLower(strings.TrimSpace(op.Name))
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		if _, ok := known[name]; ok {
			return
		}
		if _, ok := priceOperands[name]; ok {
			return
		}
		if _, err := Resolve(op, Frame{}); err == nil {
			return
		}
		warnings = append(warnings, fmt.Sprintf("operand %q does not match any configured indicator or price field", op.Name))
	}
	for _, expr := range []dto.LogicalExpression{cfg.SignalGeneration.EntryConditions, cfg.SignalGeneration.ExitConditions} {
		for _, c := range expr.Conditions {
			check(c.Left)
			check(c.Right)
		}
	}
	return warnings
}
