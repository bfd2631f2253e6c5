// Command radix-canon formats IEEE 754 doubles in bases 2 through 36 exactly
// as ECMAScript Number.prototype.toString(radix) does.
//
// Commands:
//
//	radix-canon format [options] [value...|-]
//	    Format each value, one result per line. With no values (or "-"),
//	    values are read from stdin, one per line.
//
//	radix-canon table [options] <value|->
//	    Format one value in every base from 2 to 36.
//
// Exit codes:
//
//	0  success
//	2  invalid base, invalid value, or usage error
//	10 internal error
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/lattice-substrate/radix-canon/config"
	"github.com/lattice-substrate/radix-canon/radixerr"
	"github.com/lattice-substrate/radix-canon/radixfloat"
	"github.com/lattice-substrate/radix-canon/radixjson"
)

const (
	exitSuccess  = 0
	exitInvalid  = 2
	exitInternal = 10
)

const usageLine = "usage: radix-canon <format|table> [options] [value...|-]"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout io.Writer, stderr io.Writer) int {
	if len(args) == 0 {
		if err := writeLine(stderr, usageLine); err != nil {
			return exitInternal
		}
		return exitInvalid
	}

	switch args[0] {
	case "format":
		return cmdFormat(args[1:], stdin, stdout, stderr)
	case "table":
		return cmdTable(args[1:], stdin, stdout, stderr)
	case "--help", "-h":
		if err := writeLine(stderr, usageLine); err != nil {
			return exitInternal
		}
		return exitSuccess
	default:
		if err := writef(stderr, "unknown command: %s\n", args[0]); err != nil {
			return exitInternal
		}
		if err := writeLine(stderr, usageLine); err != nil {
			return exitInternal
		}
		return exitInvalid
	}
}

type options struct {
	base       int
	baseSet    bool
	bits       bool
	f32        bool
	json       bool
	configPath string
	inputPath  string
	help       bool
}

// settings is the effective configuration after options override the
// config file.
type settings struct {
	base         int
	bits         bool
	f32          bool
	output       config.OutputMode
	maxInputSize int
}

//nolint:gocyclo,cyclop // Option dispatch is intentionally explicit and linear.
func parseOptions(args []string) (options, []string, error) {
	var o options
	var positional []string
	consumeAsPositional := false
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if consumeAsPositional {
			positional = append(positional, arg)
			continue
		}

		name, value, hasValue := strings.Cut(arg, "=")
		switch name {
		case "--base", "-b":
			v, next, err := optionValue(args, i, name, value, hasValue)
			if err != nil {
				return options{}, nil, err
			}
			i = next
			base, err := strconv.Atoi(v)
			if err != nil {
				return options{}, nil, radixerr.Wrap(radixerr.CLIUsage, -1, fmt.Sprintf("%s expects an integer", name), err)
			}
			o.base = base
			o.baseSet = true
		case "--config":
			v, next, err := optionValue(args, i, name, value, hasValue)
			if err != nil {
				return options{}, nil, err
			}
			i = next
			o.configPath = v
		case "--input", "-i":
			v, next, err := optionValue(args, i, name, value, hasValue)
			if err != nil {
				return options{}, nil, err
			}
			i = next
			o.inputPath = v
		case "--bits":
			o.bits = true
		case "--f32":
			o.f32 = true
		case "--json":
			o.json = true
		case "--help", "-h":
			o.help = true
		case "--":
			consumeAsPositional = true
		case "-":
			positional = append(positional, arg)
		default:
			// Negative numbers are values, not options.
			if strings.HasPrefix(arg, "-") && !looksNumeric(arg) {
				return options{}, nil, radixerr.New(radixerr.CLIUsage, -1, "unknown option: "+arg)
			}
			positional = append(positional, arg)
		}
	}
	return o, positional, nil
}

func optionValue(args []string, i int, name, value string, hasValue bool) (string, int, error) {
	if hasValue {
		return value, i, nil
	}
	if i+1 >= len(args) {
		return "", i, radixerr.New(radixerr.CLIUsage, -1, "missing value for "+name)
	}
	return args[i+1], i + 1, nil
}

func looksNumeric(arg string) bool {
	if len(arg) < 2 {
		return false
	}
	c := arg[1]
	return (c >= '0' && c <= '9') || c == '.' || strings.EqualFold(arg[1:], "inf") || strings.EqualFold(arg[1:], "infinity")
}

func resolveSettings(o options) (settings, error) {
	cfg, err := config.Resolve(o.configPath)
	if err != nil {
		return settings{}, radixerr.Wrap(radixerr.Config, -1, "load config", err)
	}
	s := settings{
		base:         cfg.Base,
		bits:         cfg.BitsInput || o.bits,
		f32:          cfg.Float32 || o.f32,
		output:       cfg.Output,
		maxInputSize: cfg.MaxInputSize,
	}
	if o.json {
		s.output = config.OutputJSON
	}
	if o.baseSet {
		if !radixfloat.ValidBase(o.base) {
			return settings{}, radixerr.Wrap(radixerr.InvalidBase, -1, "--base", &radixfloat.InvalidBaseError{Base: o.base})
		}
		s.base = o.base
	}
	return s, nil
}

func cmdFormat(args []string, stdin io.Reader, stdout io.Writer, stderr io.Writer) int {
	o, positional, err := parseOptions(args)
	if err != nil {
		return writeClassifiedError(stderr, err)
	}
	if o.help {
		if err := writeFormatHelp(stderr); err != nil {
			return exitInternal
		}
		return exitSuccess
	}

	s, err := resolveSettings(o)
	if err != nil {
		return writeClassifiedError(stderr, err)
	}

	texts, err := collectValues(o, positional, stdin, s.maxInputSize)
	if err != nil {
		return writeClassifiedError(stderr, err)
	}

	out := bufio.NewWriter(stdout)
	var line []byte
	for i, text := range texts {
		v, err := parseValue(text, i, s)
		if err != nil {
			return writeClassifiedError(stderr, err)
		}
		line, err = renderValue(line[:0], v, s.base, s)
		if err != nil {
			return writeClassifiedError(stderr, err)
		}
		if _, err := out.Write(line); err != nil {
			return writeClassifiedError(stderr, radixerr.Wrap(radixerr.InternalIO, -1, "writing output", err))
		}
	}
	if err := out.Flush(); err != nil {
		return writeClassifiedError(stderr, radixerr.Wrap(radixerr.InternalIO, -1, "writing output", err))
	}
	return exitSuccess
}

func cmdTable(args []string, stdin io.Reader, stdout io.Writer, stderr io.Writer) int {
	o, positional, err := parseOptions(args)
	if err != nil {
		return writeClassifiedError(stderr, err)
	}
	if o.help {
		if err := writeTableHelp(stderr); err != nil {
			return exitInternal
		}
		return exitSuccess
	}
	if o.baseSet {
		return writeClassifiedError(stderr, radixerr.New(radixerr.CLIUsage, -1, "table does not accept --base"))
	}

	s, err := resolveSettings(o)
	if err != nil {
		return writeClassifiedError(stderr, err)
	}

	texts, err := collectValues(o, positional, stdin, s.maxInputSize)
	if err != nil {
		return writeClassifiedError(stderr, err)
	}
	if len(texts) != 1 {
		return writeClassifiedError(stderr, radixerr.New(radixerr.CLIUsage, -1,
			fmt.Sprintf("table expects exactly one value, got %d", len(texts))))
	}

	v, err := parseValue(texts[0], 0, s)
	if err != nil {
		return writeClassifiedError(stderr, err)
	}

	out := bufio.NewWriter(stdout)
	var line []byte
	for base := radixfloat.MinBase; base <= radixfloat.MaxBase; base++ {
		line = line[:0]
		if s.output == config.OutputText {
			line = strconv.AppendInt(line, int64(base), 10)
			line = append(line, '\t')
		}
		line, err = renderValue(line, v, base, s)
		if err != nil {
			return writeClassifiedError(stderr, err)
		}
		if _, err := out.Write(line); err != nil {
			return writeClassifiedError(stderr, radixerr.Wrap(radixerr.InternalIO, -1, "writing output", err))
		}
	}
	if err := out.Flush(); err != nil {
		return writeClassifiedError(stderr, radixerr.Wrap(radixerr.InternalIO, -1, "writing output", err))
	}
	return exitSuccess
}

// collectValues returns the value texts named on the command line, or read
// from --input or stdin when none (or a lone "-") is given.
func collectValues(o options, positional []string, stdin io.Reader, maxInputSize int) ([]string, error) {
	fromStdin := len(positional) == 0 || (len(positional) == 1 && positional[0] == "-")
	if o.inputPath != "" {
		if len(positional) > 0 {
			return nil, radixerr.New(radixerr.CLIUsage, -1, "values and --input are mutually exclusive")
		}
		data, err := readFile(o.inputPath, maxInputSize)
		if err != nil {
			return nil, err
		}
		return splitValues(data), nil
	}
	if !fromStdin {
		for _, p := range positional {
			if p == "-" {
				return nil, radixerr.New(radixerr.CLIUsage, -1, `"-" must be the only value argument`)
			}
		}
		return positional, nil
	}
	data, err := readBounded(stdin, maxInputSize)
	if err != nil {
		return nil, err
	}
	return splitValues(data), nil
}

func splitValues(data []byte) []string {
	var texts []string
	for _, line := range bytes.Split(data, []byte{'\n'}) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		texts = append(texts, string(line))
	}
	return texts
}

func readFile(path string, maxInputSize int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, radixerr.Wrap(radixerr.CLIUsage, -1, fmt.Sprintf("read file %q", path), err)
	}
	defer func() {
		_ = f.Close()
	}()
	return readBounded(f, maxInputSize)
}

func readBounded(r io.Reader, maxInputSize int) ([]byte, error) {
	lr := io.LimitReader(r, int64(maxInputSize)+1)
	data, err := io.ReadAll(lr)
	if err != nil {
		return nil, radixerr.Wrap(radixerr.InternalIO, -1, "reading input", err)
	}
	if len(data) > maxInputSize {
		return nil, radixerr.New(radixerr.BoundExceeded, -1, fmt.Sprintf("input exceeds maximum size %d bytes", maxInputSize))
	}
	return data, nil
}

// parseValue decodes one input value. Bit patterns are hex, optionally
// prefixed with 0x; decimal text goes through strconv.ParseFloat. In 32-bit
// mode the value is narrowed to float32 precision.
func parseValue(text string, index int, s settings) (float64, error) {
	if s.bits {
		hex := strings.TrimPrefix(strings.TrimPrefix(text, "0x"), "0X")
		size := 64
		if s.f32 {
			size = 32
		}
		if len(hex) == 0 || len(hex) > size/4 {
			return 0, radixerr.New(radixerr.InvalidValue, index,
				fmt.Sprintf("bit pattern %q must have 1 to %d hex digits", text, size/4))
		}
		u, err := strconv.ParseUint(hex, 16, size)
		if err != nil {
			return 0, radixerr.Wrap(radixerr.InvalidValue, index, fmt.Sprintf("parse bit pattern %q", text), err)
		}
		if s.f32 {
			return float64(math.Float32frombits(uint32(u))), nil
		}
		return math.Float64frombits(u), nil
	}

	size := 64
	if s.f32 {
		size = 32
	}
	v, err := strconv.ParseFloat(text, size)
	if err != nil {
		return 0, radixerr.Wrap(radixerr.InvalidValue, index, fmt.Sprintf("parse value %q", text), err)
	}
	return v, nil
}

// renderValue appends the formatted value and a trailing LF to dst.
func renderValue(dst []byte, v float64, base int, s settings) ([]byte, error) {
	if s.output == config.OutputText && !s.f32 {
		out, err := radixfloat.AppendFloat(dst, v, base)
		if err != nil {
			return dst, err
		}
		return append(out, '\n'), nil
	}

	var text string
	var err error
	if s.f32 {
		text, err = radixfloat.FormatFloat32(float32(v), base)
	} else {
		text, err = radixfloat.FormatFloat(v, base)
	}
	if err != nil {
		return dst, err
	}

	if s.output == config.OutputJSON {
		rec, err := radixjson.Marshal(radixjson.NewRecord(v, base, text))
		if err != nil {
			return dst, radixerr.Wrap(radixerr.InternalError, -1, "encode record", err)
		}
		dst = append(dst, rec...)
	} else {
		dst = append(dst, text...)
	}
	return append(dst, '\n'), nil
}

func writeClassifiedError(stderr io.Writer, err error) int {
	class := radixerr.Classify(err)
	if writeErr := writef(stderr, "error: %v\n", err); writeErr != nil {
		return exitInternal
	}
	return class.ExitCode()
}

func writeFormatHelp(stderr io.Writer) error {
	lines := []string{
		"usage: radix-canon format [options] [value...|-]",
		"  Format each value in the selected base, one result per line.",
		"  --base N, -b N   Base from 2 to 36 (default 10, or the config file's base)",
		"  --bits           Values are hex IEEE 754 bit patterns",
		"  --f32            Values are 32-bit floats",
		"  --json           Emit one canonical JSON record per value",
		"  --input PATH     Read values from PATH, one per line",
		"  --config PATH    YAML config file (default $" + config.EnvConfigPath + ")",
	}
	for _, l := range lines {
		if err := writeLine(stderr, l); err != nil {
			return err
		}
	}
	return nil
}

func writeTableHelp(stderr io.Writer) error {
	lines := []string{
		"usage: radix-canon table [options] <value|->",
		"  Format one value in every base from 2 to 36.",
		"  --bits           The value is a hex IEEE 754 bit pattern",
		"  --f32            The value is a 32-bit float",
		"  --json           Emit one canonical JSON record per base",
		"  --input PATH     Read the value from PATH",
		"  --config PATH    YAML config file (default $" + config.EnvConfigPath + ")",
	}
	for _, l := range lines {
		if err := writeLine(stderr, l); err != nil {
			return err
		}
	}
	return nil
}

func writeLine(w io.Writer, msg string) error {
	return writef(w, "%s\n", msg)
}

func writef(w io.Writer, format string, args ...any) error {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		return fmt.Errorf("write stream: %w", err)
	}
	return nil
}
