package ctl

import "strings"

// weightNotFound doubles as the sentinel for a failed table lookup and as
// the weight of names with no recognized prefix, so unmatched names sort
// after all matched ones.
const weightNotFound = 1_000_000_000

// mixerNames ranks the primary control-class prefixes. Order is the sort
// order; each step contributes 1_000_000 to the weight.
var mixerNames = []string{
	"Master",
	"Hardware Master",
	"Headphone",
	"Tone Control",
	"3D Control",
	"PCM",
	"Front",
	"Surround",
	"Center",
	"LFE",
	"Synth",
	"FM",
	"Wave",
	"Music",
	"DSP",
	"Line",
	"CD",
	"Mic",
	"Phone",
	"Video",
	"Zoom Video",
	"PC Speaker",
	"Aux",
	"Mono",
	"ADC",
	"Capture Source",
	"Capture",
	"Playback",
	"Loopback",
	"Analog Loopback",
	"Digital Loopback",
	"I2S",
	"IEC958",
}

// mixerSuffixes1 ranks the first-level suffix token, contributing 1000 per
// step.
var mixerSuffixes1 = []string{
	"Switch",
	"Volume",
	"Playback",
	"Capture",
	"Bypass",
	"Mono",
	"Front",
	"Rear",
	"Pan",
	"Output",
	"-",
}

// mixerSuffixes2 ranks the second-level suffix token, contributing 1 per
// step.
var mixerSuffixes2 = []string{
	"Switch",
	"Volume",
	"Bypass",
	"Depth",
	"Wide",
	"Space",
	"Level",
	"Center",
}

// priorityLookup prefix-matches *name against the table. On a match it
// consumes the matched prefix plus one following space and returns the
// table position scaled by coef, offset by one. Without a match it returns
// weightNotFound and leaves *name untouched.
func priorityLookup(name *string, table []string, coef int) int {
	res := 0
	for _, entry := range table {
		if strings.HasPrefix(*name, entry) {
			rest := (*name)[len(entry):]
			if strings.HasPrefix(rest, " ") {
				rest = rest[1:]
			}
			*name = rest
			return res + 1
		}
		res += coef
	}
	return weightNotFound
}

// compareWeight computes the heuristic ordering weight of an element name.
// The primary prefix contributes a large-magnitude rank; if input remains,
// the last two space-delimited tokens contribute medium and small
// refinements. Unmatched stages stop contributing and the running sum is
// returned as-is.
//
// The backward token scan reproduces the legacy byte walk, including its
// behavior on names with embedded runs of spaces; ordering of existing
// control names depends on it.
// CompareWeight exposes the ordering weight for layers that sort derived
// entities by the same heuristic as the mixer-interface cache.
func CompareWeight(name string) int {
	return compareWeight(name)
}

func compareWeight(name string) int {
	res := priorityLookup(&name, mixerNames, 1_000_000)
	if res == weightNotFound {
		return weightNotFound
	}
	if name == "" {
		return res
	}

	// Walk backward to the start of the last token, then past any spaces
	// preceding it.
	i := len(name) - 1
	for i != 0 && name[i] != ' ' {
		i--
	}
	for i != 0 && name[i] == ' ' {
		i--
	}
	if i != 0 {
		// Walk back once more to the token before the last one.
		for i != 0 && name[i] != ' ' {
			i--
		}
		rest := name[i:]
		r := priorityLookup(&rest, mixerSuffixes1, 1000)
		if r == weightNotFound {
			return res
		}
		res += r
		name = rest
	} else {
		name = name[i:]
	}
	r := priorityLookup(&name, mixerSuffixes2, 1)
	if r == weightNotFound {
		return res
	}
	return res + r
}
