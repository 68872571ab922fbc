package preflight

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the readiness checks for a configuration directory. The
// file checks are skipped when the directory itself is unusable.
func RunAll(dir string) []Result {
	results := []Result{CheckDirectoryAccess("Config directory", dir)}
	if !results[0].Passed {
		return results
	}
	return append(results,
		CheckCredentials(dir),
		CheckUsers(dir),
		CheckQueue(dir),
	)
}

// AllPassed reports whether every result passed.
func AllPassed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}
