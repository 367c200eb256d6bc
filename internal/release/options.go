package release

import (
	clierrors "github.com/ShogunPanda/cambi/internal/errors"
)

// Options are the user-facing switches of a release run.
type Options struct {
	Rebuild    bool
	NotesOnly  bool
	DryRun     bool
	Prerelease bool
	// Target is an explicit version selecting a single tag.
	Target string
	// Token, Owner and Repo are explicit overrides given on the command line.
	Token string
	Owner string
	Repo  string
}

// Validate rejects mutually exclusive combinations before any work starts.
func (o Options) Validate() error {
	if o.NotesOnly {
		var conflicts []string
		for flag, set := range map[string]bool{
			"rebuild":    o.Rebuild,
			"dry-run":    o.DryRun,
			"prerelease": o.Prerelease,
			"token":      o.Token != "",
			"owner":      o.Owner != "",
			"repo":       o.Repo != "",
		} {
			if set {
				conflicts = append(conflicts, flag)
			}
		}
		if o.Target != "" {
			conflicts = append(conflicts, "target")
		}
		if len(conflicts) > 0 {
			return clierrors.ConflictingFlags("notes-only", conflicts...)
		}
	}

	if o.Rebuild && o.Target != "" {
		return clierrors.New(clierrors.KindConflictingFlags, "--rebuild cannot be combined with an explicit target").
			WithContext("flag", "rebuild")
	}
	if o.Prerelease && o.Target == "" {
		return clierrors.New(clierrors.KindConflictingFlags, "--prerelease requires an explicit target").
			WithContext("flag", "prerelease")
	}
	return nil
}
