package z

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// SuperFlagHelp makes it easy to generate `--help` output for a SuperFlag.
// For example:
//
//	const flagDefaults = `n=1024; k=4; s=32;`
//
//	var help string = z.NewSuperFlagHelp(flagDefaults).
//		Flag("n", "Number of cells per IBF.").
//		Flag("k", "Number of hash-derived indices per element.").
//		Flag("s", "Number of strata in the estimator.").
//		String()
//
// All flags are sorted alphabetically for consistent `--help` output. Flags
// with default values are placed at the top, everything else below.
type SuperFlagHelp struct {
	defaults *SuperFlag
	flags    map[string]string
}

func NewSuperFlagHelp(defaults string) *SuperFlagHelp {
	return &SuperFlagHelp{
		defaults: NewSuperFlag(defaults),
		flags:    make(map[string]string, 0),
	}
}

func (h *SuperFlagHelp) Flag(name, description string) *SuperFlagHelp {
	h.flags[name] = description
	return h
}

func (h *SuperFlagHelp) String() string {
	defaultLines := make([]string, 0)
	otherLines := make([]string, 0)
	for name, help := range h.flags {
		val, found := h.defaults.m[name]
		line := fmt.Sprintf("%s=%s; %s\n", name, val, help)
		if found {
			defaultLines = append(defaultLines, line)
		} else {
			otherLines = append(otherLines, line)
		}
	}
	sort.Strings(defaultLines)
	sort.Strings(otherLines)
	return strings.Join(defaultLines, "") + strings.Join(otherLines, "")
}

func parseFlag(flag string) map[string]string {
	kvm := make(map[string]string)
	for _, kv := range strings.Split(flag, ";") {
		if strings.TrimSpace(kv) == "" {
			continue
		}
		splits := strings.SplitN(kv, "=", 2)
		k := strings.TrimSpace(splits[0])
		k = strings.ToLower(k)
		k = strings.ReplaceAll(k, "_", "-")
		kvm[k] = strings.TrimSpace(splits[1])
	}
	return kvm
}

// SuperFlag is a semicolon-separated "key=value; key=value" config string,
// the form the demo driver accepts for -ibf and -estimator flags.
type SuperFlag struct {
	m map[string]string
}

func NewSuperFlag(flag string) *SuperFlag {
	return &SuperFlag{m: parseFlag(flag)}
}

func (sf *SuperFlag) String() string {
	if sf == nil {
		return ""
	}
	var kvs []string
	for k, v := range sf.m {
		kvs = append(kvs, fmt.Sprintf("%s=%s", k, v))
	}
	return strings.Join(kvs, "; ")
}

// MergeAndCheckDefault merges flag's keys into sf, treating sf's own keys
// (usually pre-seeded with defaults) as the only valid option names. It
// panics if flag names a key sf did not already know about, the same
// fail-fast contract the teacher uses for flag typos.
func (sf *SuperFlag) MergeAndCheckDefault(flag string) *SuperFlag {
	if sf == nil {
		return &SuperFlag{m: parseFlag(flag)}
	}
	src := parseFlag(flag)
	for k := range src {
		if _, ok := sf.m[k]; !ok {
			panic(fmt.Sprintf("Found invalid options in %s. Valid options: %v", flag, sf))
		}
	}
	for k, v := range src {
		sf.m[k] = v
	}
	return sf
}

func (sf *SuperFlag) Has(opt string) bool {
	return sf.GetString(opt) != ""
}

func (sf *SuperFlag) GetBool(opt string) bool {
	val := sf.GetString(opt)
	if val == "" {
		return false
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		err = errors.Wrapf(err, "unable to parse %s as bool for key: %s. Options: %s", val, opt, sf)
		panic(err)
	}
	return b
}

func (sf *SuperFlag) GetFloat64(opt string) float64 {
	val := sf.GetString(opt)
	if val == "" {
		return 0
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		err = errors.Wrapf(err, "unable to parse %s as float64 for key: %s. Options: %s", val, opt, sf)
		panic(err)
	}
	return f
}

func (sf *SuperFlag) GetUint64(opt string) uint64 {
	val := sf.GetString(opt)
	if val == "" {
		return 0
	}
	u, err := strconv.ParseUint(val, 0, 64)
	if err != nil {
		err = errors.Wrapf(err, "unable to parse %s as uint64 for key: %s. Options: %s", val, opt, sf)
		panic(err)
	}
	return u
}

func (sf *SuperFlag) GetString(opt string) string {
	if sf == nil {
		return ""
	}
	return sf.m[opt]
}
