package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	toggleFlagTypeName       = "bool"
	toggleImplicitValue      = "true"
	toggleAcceptedValues     = "true, false, yes, no, on, off, 1, 0"
	errorToggleValueFormat   = "invalid value %q for --%s; accepted values: %s"
	normalizedToggleArgument = "--%s=%s"
)

var toggleLiterals = map[string]bool{
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
	"off":   false,
}

func parseToggleLiteral(input string) (bool, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		normalized = toggleImplicitValue
	}
	value, known := toggleLiterals[normalized]
	return value, known
}

// toggleFlag is a boolean flag that accepts yes/no style literals as well as a bare switch.
type toggleFlag struct {
	target *bool
	name   string
}

func (flag *toggleFlag) Set(input string) error {
	value, known := parseToggleLiteral(input)
	if !known {
		return fmt.Errorf(errorToggleValueFormat, input, flag.name, toggleAcceptedValues)
	}
	*flag.target = value
	return nil
}

func (flag *toggleFlag) String() string {
	if flag == nil || flag.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*flag.target)
}

func (flag *toggleFlag) Type() string {
	return toggleFlagTypeName
}

func registerBooleanFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	*target = defaultValue
	flagSet.Var(&toggleFlag{target: target, name: name}, name, usage)
	registered := flagSet.Lookup(name)
	registered.DefValue = strconv.FormatBool(defaultValue)
	registered.NoOptDefVal = toggleImplicitValue
}

// normalizeBooleanFlagArguments joins "--flag value" into "--flag=value" for toggle flags
// when value is a boolean literal, so that "--copy no" is not read as a positional root.
func normalizeBooleanFlagArguments(command *cobra.Command, arguments []string) []string {
	toggles := make(map[string]struct{})
	collectToggleFlagNames(command, toggles)
	if len(toggles) == 0 {
		return arguments
	}
	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		argument := arguments[index]
		if argument == "--" {
			return append(normalized, arguments[index:]...)
		}
		flagName, isLongFlag := strings.CutPrefix(argument, "--")
		if isLongFlag && !strings.Contains(flagName, "=") && index+1 < len(arguments) {
			if _, isToggle := toggles[flagName]; isToggle {
				next := arguments[index+1]
				if _, known := parseToggleLiteral(next); known && strings.TrimSpace(next) != "" {
					normalized = append(normalized, fmt.Sprintf(normalizedToggleArgument, flagName, next))
					index++
					continue
				}
			}
		}
		normalized = append(normalized, argument)
	}
	return normalized
}

func collectToggleFlagNames(command *cobra.Command, names map[string]struct{}) {
	command.Flags().VisitAll(func(flag *pflag.Flag) {
		if _, isToggle := flag.Value.(*toggleFlag); isToggle {
			names[flag.Name] = struct{}{}
		}
	})
	for _, child := range command.Commands() {
		collectToggleFlagNames(child, names)
	}
}
