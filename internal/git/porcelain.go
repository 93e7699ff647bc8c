package git

import "strings"

// porcelainFlags summarizes `git status --porcelain` output.
type porcelainFlags struct {
	HasChanges         bool
	HasUnstagedChanges bool
	HasStagedChanges   bool
}

// parsePorcelain derives change flags from porcelain v1 output.
//
// Each line is "XY path" where X is the index column and Y the working
// tree column. Untracked files ("??") count as unstaged. A non-space,
// non-'?' X means something is staged; a non-space Y means the working
// tree differs from the index.
func parsePorcelain(output string) porcelainFlags {
	var flags porcelainFlags

	for _, line := range strings.Split(output, "\n") {
		if len(line) < 2 {
			continue
		}
		flags.HasChanges = true

		x, y := line[0], line[1]
		if x == '?' {
			flags.HasUnstagedChanges = true
			continue
		}
		if x != ' ' {
			flags.HasStagedChanges = true
		}
		if y != ' ' {
			flags.HasUnstagedChanges = true
		}
	}

	return flags
}
