package match

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// File is one scanned video file, identified by its filename stem
// (filename without extension, case preserved).
type File struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
	Stem     string `json:"stem"`
}

// Result maps lowercased expected stems to matched file paths and
// reports file stems (lowercased) that matched nothing.
type Result struct {
	Matches   map[string][]string
	Unmatched []string
}

var (
	// Filesystems and download tools disambiguate duplicates with a
	// trailing "(N)", optionally preceded by a space or underscore.
	fileDedupRE = regexp.MustCompile(`^(.+?)[ _]?\((\d+)\)$`)

	// Expected stems for sibling takes differ only in a trailing _N.
	expectedSuffixRE = regexp.MustCompile(`^(.+?)_(\d+)$`)
)

// prefixFloor is the minimum length of the shorter string for a
// prefix/truncation match to count. Short stems prefix-match each other
// far too easily.
const prefixFloor = 20

// Match reconciles expected stems against files in three phases, each
// consuming only what the previous phase left unmatched:
//
//  1. exact case-insensitive equality
//  2. dedup-suffix grouping: "(N)"-suffixed files paired positionally
//     against "_N"-suffixed expected stems sharing a base
//  3. prefix/truncation: one stem a prefix of the other, shorter side
//     at least prefixFloor long, greatest overlap wins
//
// Match never fails: leftovers on either side are simply reported.
func Match(expected []string, files []File) Result {
	res := Result{Matches: make(map[string][]string, len(expected))}

	expectedDone := make([]bool, len(expected))
	fileDone := make([]bool, len(files))

	record := func(ei, fi int) {
		key := strings.ToLower(expected[ei])
		res.Matches[key] = append(res.Matches[key], files[fi].Path)
		expectedDone[ei] = true
		fileDone[fi] = true
	}

	// Phase 1: exact.
	fileByStem := make(map[string]int, len(files))
	for i, f := range files {
		key := strings.ToLower(f.Stem)
		if _, ok := fileByStem[key]; !ok {
			fileByStem[key] = i
		}
	}
	for ei, exp := range expected {
		if fi, ok := fileByStem[strings.ToLower(exp)]; ok && !fileDone[fi] {
			record(ei, fi)
		}
	}

	// Phase 2: dedup-suffix grouping.
	matchDedupGroups(expected, files, expectedDone, fileDone, record)

	// Phase 3: prefix/truncation.
	for ei := range expected {
		if expectedDone[ei] {
			continue
		}
		exp := strings.ToLower(expected[ei])
		best, bestOverlap := -1, 0
		for fi := range files {
			if fileDone[fi] {
				continue
			}
			stem := strings.ToLower(files[fi].Stem)
			overlap := min(len(exp), len(stem))
			if overlap < prefixFloor || overlap <= bestOverlap {
				continue
			}
			if strings.HasPrefix(exp, stem) || strings.HasPrefix(stem, exp) {
				best, bestOverlap = fi, overlap
			}
		}
		if best >= 0 {
			record(ei, best)
		}
	}

	for fi, f := range files {
		if !fileDone[fi] {
			res.Unmatched = append(res.Unmatched, strings.ToLower(f.Stem))
		}
	}
	return res
}

type numbered struct {
	idx int
	n   int
}

func matchDedupGroups(expected []string, files []File, expectedDone, fileDone []bool, record func(ei, fi int)) {
	expGroups := make(map[string][]numbered)
	for ei, exp := range expected {
		if expectedDone[ei] {
			continue
		}
		base, n := splitSuffix(exp, expectedSuffixRE)
		expGroups[base] = append(expGroups[base], numbered{ei, n})
	}

	fileGroups := make(map[string][]numbered)
	for fi, f := range files {
		if fileDone[fi] {
			continue
		}
		base, n := splitSuffix(f.Stem, fileDedupRE)
		fileGroups[base] = append(fileGroups[base], numbered{fi, n})
	}

	for base, exps := range expGroups {
		fs, ok := fileGroups[base]
		if !ok {
			continue
		}
		sort.SliceStable(exps, func(i, j int) bool { return exps[i].n < exps[j].n })
		sort.SliceStable(fs, func(i, j int) bool { return fs[i].n < fs[j].n })
		for i := 0; i < len(exps) && i < len(fs); i++ {
			record(exps[i].idx, fs[i].idx)
		}
	}
}

// splitSuffix separates a stem into its lowercased base and numeric
// marker. A stem without the pattern is its own base with marker 1.
func splitSuffix(stem string, re *regexp.Regexp) (string, int) {
	if m := re.FindStringSubmatch(stem); m != nil {
		n, err := strconv.Atoi(m[2])
		if err == nil {
			return strings.ToLower(strings.TrimRight(m[1], "_ ")), n
		}
	}
	return strings.ToLower(stem), 1
}
