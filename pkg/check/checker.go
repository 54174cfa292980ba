package check

// Checker is implemented by all check types.
// Each check probes one aspect of a host and returns a Result.
//
// Implementations:
//   - filecheck.Check: file/directory type, mode and ownership
//   - servicecheck.Check: service enablement and activity
//   - usercheck.Check: user existence, shell and system flag
//   - socketcheck.Check: listening sockets
//   - versioncheck.Check: binary version constraints
//   - rpccheck.Check: node JSON-RPC health
type Checker interface {
	Run() Result
}

// Report is the outcome of running a batch of checks.
type Report struct {
	Results []Result
	Passed  int
	Failed  int
}

// OK returns true if every check passed.
func (r Report) OK() bool {
	return r.Failed == 0
}

// Failures returns the assertion errors of failed results in run order.
func (r Report) Failures() []error {
	var errs []error
	for _, res := range r.Results {
		if !res.OK() {
			errs = append(errs, res.Err)
		}
	}
	return errs
}

// RunAll runs every checker in order. A failing check never stops the batch.
func RunAll(checks []Checker) Report {
	var rep Report
	for _, c := range checks {
		rep.Add(c.Run())
	}
	return rep
}

// Add records a result in the report.
func (r *Report) Add(res Result) {
	r.Results = append(r.Results, res)
	if res.OK() {
		r.Passed++
	} else {
		r.Failed++
	}
}
