package domain

import (
	"log/slog"
	"math"
	"math/rand"
	"strconv"

	"covnet.dev/pkg/covnet/internal/model"
)

// ReportSink persists a finished run's reports. The adapter layer provides
// the file-backed implementation.
type ReportSink interface {
	Save(report model.Report, text string) error
}

// SessionConfig carries the knobs of a coverage session.
type SessionConfig struct {
	// Seed seeds the random source shared by every Advance call.
	Seed int64
	// MaxAttempts is the attempt budget substituted when Met is polled
	// with a timeout of -1. Zero or negative disables forced completion.
	MaxAttempts int
	// Sink receives the reports when the run completes or times out. May
	// be nil, in which case nothing is persisted.
	Sink ReportSink
}

// Session owns one verification run's coverage state: the insertion-ordered
// registry of finalized nets and the attempt counter used for timeout-based
// termination. Sessions are independent; several can coexist in a process.
type Session struct {
	seed        int64
	maxAttempts int
	rng         *rand.Rand
	sink        ReportSink
	nets        []Net
	counter     int
}

// NewSession creates an empty coverage session.
func NewSession(cfg SessionConfig) *Session {
	return &Session{
		seed:        cfg.Seed,
		maxAttempts: cfg.MaxAttempts,
		rng:         rand.New(rand.NewSource(cfg.Seed)),
		sink:        cfg.Sink,
	}
}

// Seed returns the seed of the session's random source.
func (s *Session) Seed() int64 {
	return s.seed
}

// Rng returns the session's random source. It is shared by every net's
// randomized Advance and by the drive loop's stimulus generation.
func (s *Session) Rng() *rand.Rand {
	return s.rng
}

// register appends a finalized net. Called by the builders' Apply.
func (s *Session) register(n Net) {
	s.nets = append(s.nets, n)
	slog.Debug("registered coverage net", "name", n.Name(), "kind", n.Kind().String())
}

// unregisterLast removes the most recently registered net. Cross nets use
// it to substitute themselves for their synthetic inner range.
func (s *Session) unregisterLast() {
	if len(s.nets) == 0 {
		return
	}

	s.nets = s.nets[:len(s.nets)-1]
}

// Nets returns every tracked net in declaration order.
func (s *Session) Nets() []Net {
	return s.nets
}

// FailingNets returns the nets that are neither bypassed nor passed.
func (s *Session) FailingNets() []Net {
	var failing []Net

	for _, net := range s.nets {
		if !net.Skipped() && !net.Passed() {
			failing = append(failing, net)
		}
	}

	return failing
}

// Count returns how many times Met has polled unmet coverage. If Met is
// called once per transaction it measures how many test cases the run
// needed.
func (s *Session) Count() int {
	return s.counter
}

// tally sums the met and total goal points across all non-skipped nets.
func (s *Session) tally() (count, points int) {
	for _, net := range s.nets {
		if net.Status() == model.Skipped {
			continue
		}

		count += net.PointsMet()

		if net.Kind() == model.KindPoint {
			points++
		} else {
			points += net.PartitionCount()
		}
	}

	return count, points
}

// Percent returns the share of goal points met, as a percentage rounded to
// two decimals, or nil when there are no goal points to tally.
func (s *Session) Percent() *float64 {
	count, points := s.tally()
	if points == 0 {
		return nil
	}

	percent := math.Round(float64(count)/float64(points)*100.0*100.0) / 100.0

	return &percent
}

// OverallStatus derives the run status: Skipped with zero goal points,
// otherwise Passed only when every goal point is met.
func (s *Session) OverallStatus() model.Status {
	count, points := s.tally()

	if points == 0 {
		return model.Skipped
	}

	if count >= points {
		return model.Passed
	}

	return model.Failed
}

// CheckThreshold reports whether the met-points ratio reaches the given
// threshold in [0, 1]. A run with no goal points always passes.
func (s *Session) CheckThreshold(threshold float64) bool {
	count, points := s.tally()
	if points <= 0 {
		return true
	}

	return float64(count)/float64(points) >= threshold
}

// Met polls whether every non-bypassed net reached its goal, incrementing
// the attempt counter on each unmet poll. Once the counter reaches the
// timeout, completion is forced and the (possibly sub-100%) report is
// persisted anyway. A timeout of -1 substitutes the session's attempt
// budget; a timeout of 0 or below disables forced completion.
func (s *Session) Met(timeout int) (bool, error) {
	if timeout == -1 {
		timeout = s.maxAttempts
	}

	if timeout > 0 && s.counter >= timeout {
		slog.Info("coverage timed out", "attempts", s.counter, "timeout", timeout)
		return true, s.Save()
	}

	for _, net := range s.nets {
		if !net.Skipped() && !net.Passed() {
			s.counter++
			return false, nil
		}
	}

	return true, s.Save()
}

// Summary returns the one-line-per-net overview of the run.
func (s *Session) Summary() (string, error) {
	return s.Report(false)
}

// Report renders every net, verbosely or as summary lines.
func (s *Session) Report(verbose bool) (string, error) {
	contents := ""

	for _, net := range s.nets {
		line, err := net.Log(verbose)
		if err != nil {
			return "", err
		}

		contents += line + "\n"
	}

	return contents, nil
}

// ScoreLine formats the score for terminal output, e.g. "87.5 % (35/40 goals)".
func (s *Session) ScoreLine() string {
	count, points := s.tally()

	percent := s.Percent()
	if percent == nil {
		return "N/A (" + strconv.Itoa(count) + "/" + strconv.Itoa(points) + " goals)"
	}

	return strconv.FormatFloat(*percent, 'f', -1, 64) + " % (" + strconv.Itoa(count) + "/" + strconv.Itoa(points) + " goals)"
}

// Snapshot renders the whole session for the structured report.
func (s *Session) Snapshot() model.Report {
	count, points := s.tally()

	nets := make([]model.NetReport, 0, len(s.nets))
	for _, net := range s.nets {
		nets = append(nets, net.Snapshot())
	}

	return model.Report{
		Seed:       s.seed,
		Iterations: s.counter,
		Score:      s.Percent(),
		Met:        s.OverallStatus().ToJSON(),
		Count:      count,
		Points:     points,
		Nets:       nets,
	}
}

// Text renders the persistable text report: a header, the summary, then
// the verbose per-bin details.
func (s *Session) Text() (string, error) {
	count, points := s.tally()

	met := "none"
	if points > 0 {
		met = strconv.FormatBool(count >= points)
	}

	score := "none"
	if percent := s.Percent(); percent != nil {
		score = strconv.FormatFloat(*percent, 'f', -1, 64)
	}

	header := "File: Coverage Report\n"
	header += "Seed: " + strconv.FormatInt(s.seed, 10) + "\n"
	header += "Iterations: " + strconv.Itoa(s.counter) + "\n"
	header += "Score: " + score + "\n"
	header += "Met: " + met + "\n"
	header += "Count: " + strconv.Itoa(count) + "\n"
	header += "Points: " + strconv.Itoa(points) + "\n"

	summary, err := s.Report(false)
	if err != nil {
		return "", err
	}

	details, err := s.Report(true)
	if err != nil {
		return "", err
	}

	return header + "\n" + summary + "\n" + details, nil
}

// Save persists the structured and text reports through the configured
// sink. A session without a sink skips persistence.
func (s *Session) Save() error {
	if s.sink == nil {
		return nil
	}

	text, err := s.Text()
	if err != nil {
		return err
	}

	slog.Debug("saving coverage report", "iterations", s.counter, "score", s.ScoreLine())

	return s.sink.Save(s.Snapshot(), text)
}
