// Package widget implements the bidirectional address validation component:
// a locality field and a postal-code field kept mutually consistent through
// debounced lookups against the locality directory service.
package widget

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"plzform/internal/debounce"
	"plzform/internal/directory"
)

// DefaultDelay is the quiescence window applied to both fields.
const DefaultDelay = 1000 * time.Millisecond

// User-visible lookup outcomes.
const (
	msgNoLocalityResults = "no results found for this locality"
	msgInvalidPostalCode = "invalid postal code"
	msgLocalityFetch     = "failed to fetch locality data"
	msgPostalCodeFetch   = "failed to fetch postal code data"
)

// Validator owns the two address fields and the derived UI state, and runs
// the two debounced lookup flows against the directory service.
//
// All exported methods are safe for concurrent use. Lookups run on their own
// goroutines; each request is tagged with the sequence number of the input
// generation it was issued for, and a completion whose tag is stale is
// discarded rather than allowed to overwrite newer state.
type Validator struct {
	client directory.Client
	logger *slog.Logger

	localityDeb *debounce.Debouncer[string]
	postalDeb   *debounce.Debouncer[string]

	mu         sync.Mutex
	locality   string
	postalCode string
	mode       Mode
	status     Status
	options    []string

	// Per-direction input generations. Bumped on every user edit and on
	// every issued request, so an in-flight completion can detect that it
	// has been superseded.
	localitySeq uint64
	postalSeq   uint64

	closed bool
}

// Config contains configuration for a Validator.
type Config struct {
	Client directory.Client
	Delay  time.Duration // Optional: defaults to DefaultDelay
	Logger *slog.Logger  // Optional: defaults to slog.Default()
}

// New creates a Validator in idle, single-input state.
func New(cfg Config) *Validator {
	delay := cfg.Delay
	if delay == 0 {
		delay = DefaultDelay
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	v := &Validator{
		client: cfg.Client,
		logger: logger,
		mode:   ModeSingleInput,
		status: idle(),
	}
	v.localityDeb = debounce.New(delay, v.localityQuiesced)
	v.postalDeb = debounce.New(delay, v.postalQuiesced)
	return v
}

// SetLocality records a user edit of the locality field. The lookup itself
// only fires once the value has been stable for the debounce window.
func (v *Validator) SetLocality(s string) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.locality = s
	v.status = idle()
	v.localitySeq++
	v.mu.Unlock()

	v.localityDeb.Set(s)
}

// SetPostalCode records a user edit of the postal-code field.
func (v *Validator) SetPostalCode(s string) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.postalCode = s
	v.status = idle()
	v.postalSeq++
	v.mu.Unlock()

	v.postalDeb.Set(s)
}

// SelectOption resolves a dropdown choice: the postal-code field takes the
// selected value, the field returns to single-input mode, and the outcome is
// success without any further network round trip. Values that are not among
// the current options are ignored.
func (v *Validator) SelectOption(code string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed || v.mode != ModeDropdown || !slices.Contains(v.options, code) {
		return
	}

	v.postalCode = code
	v.mode = ModeSingleInput
	v.options = nil
	v.status = success()
}

// Snapshot returns a consistent copy of the widget state for rendering.
func (v *Validator) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	return Snapshot{
		Locality:   v.locality,
		PostalCode: v.postalCode,
		Mode:       v.mode,
		Status:     v.status,
		Options:    slices.Clone(v.options),
	}
}

// Close stops both debouncers and drops any in-flight lookup results.
func (v *Validator) Close() {
	v.localityDeb.Stop()
	v.postalDeb.Stop()

	v.mu.Lock()
	v.closed = true
	v.mu.Unlock()
}

// localityQuiesced runs when the locality field has been stable for the
// debounce window.
func (v *Validator) localityQuiesced(name string) {
	if name == "" {
		return
	}

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.status = loading()
	v.localitySeq++
	seq := v.localitySeq
	v.mu.Unlock()

	go v.lookupByLocality(seq, name)
}

func (v *Validator) lookupByLocality(seq uint64, name string) {
	records, err := v.client.SearchByName(context.Background(), name)

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed || seq != v.localitySeq {
		// Superseded by newer input; this result no longer applies.
		return
	}

	// Both failure outcomes drop back to free-text entry: a lingering
	// dropdown would hold stale (or no) options and keep the reverse
	// lookup suppressed.
	if err != nil {
		v.logger.Error("locality lookup failed", "query", name, "error", err)
		v.status = failure(msgLocalityFetch)
		v.options = nil
		v.mode = ModeSingleInput
		return
	}

	if len(records) == 0 {
		v.status = failure(msgNoLocalityResults)
		v.options = nil
		v.mode = ModeSingleInput
		return
	}

	codes := distinctPostalCodes(records)
	if len(codes) == 1 {
		// Auto-fill the other field. Programmatic population bypasses the
		// debouncer so it cannot trigger the reverse lookup.
		v.postalCode = codes[0]
		v.mode = ModeSingleInput
		v.options = nil
		v.status = success()
		return
	}

	// Several codes match: the user has to pick one. Clearing the field
	// avoids a stale value feeding the reverse lookup later. Success is
	// only reported once a selection is made.
	v.options = codes
	v.mode = ModeDropdown
	v.postalCode = ""
	v.status = idle()
}

// postalQuiesced runs when the postal-code field has been stable for the
// debounce window. While the field is in dropdown mode the reverse lookup is
// suppressed so the two directions cannot race each other.
func (v *Validator) postalQuiesced(code string) {
	if code == "" {
		return
	}

	v.mu.Lock()
	if v.closed || v.mode == ModeDropdown {
		v.mu.Unlock()
		return
	}
	v.status = loading()
	v.postalSeq++
	seq := v.postalSeq
	v.mu.Unlock()

	go v.lookupByPostalCode(seq, code)
}

func (v *Validator) lookupByPostalCode(seq uint64, code string) {
	records, err := v.client.SearchByPostalCode(context.Background(), code)

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed || seq != v.postalSeq {
		return
	}

	if err != nil {
		v.logger.Error("postal code lookup failed", "query", code, "error", err)
		v.status = failure(msgPostalCodeFetch)
		return
	}

	if len(records) == 0 {
		v.status = failure(msgInvalidPostalCode)
		return
	}

	// Several localities can share one code; the first record wins.
	v.locality = records[0].Name
	v.status = success()
}

// distinctPostalCodes de-duplicates the codes of a record list, preserving
// first-seen order.
func distinctPostalCodes(records []directory.Locality) []string {
	seen := make(map[string]struct{}, len(records))
	codes := make([]string, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r.PostalCode]; ok {
			continue
		}
		seen[r.PostalCode] = struct{}{}
		codes = append(codes, r.PostalCode)
	}
	return codes
}
