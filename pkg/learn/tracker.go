/*
Package learn tracks which candidate the user picked in which context and
reranks future suggestion lists accordingly.

Counts persist as a flat JSON map keyed by context and candidate joined
with "→". The separator could in principle appear inside either field and
collide two keys; the joiner is isolated in compositeKey so an escape
scheme is a one-line change if that ever bites. Flushing is batched by an
injected policy (every N recorded selections) plus an explicit flush on
Close. The preference file is guarded with an advisory flock so two
keyboard processes cannot interleave writes.
*/
package learn

import (
	"encoding/json"
	"os"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gofrs/flock"
	"github.com/pkg/errors"

	"github.com/mizutok/kanakey/internal/logger"
	"github.com/mizutok/kanakey/internal/utils"
)

// keySeparator joins context and candidate in the persisted composite key.
const keySeparator = "→"

// FlushPolicy controls batched persistence.
type FlushPolicy struct {
	// EveryN flushes after every Nth cumulative recorded selection.
	// Zero or negative disables count-based flushing.
	EveryN int
}

// DefaultFlushPolicy flushes every 10th selection.
func DefaultFlushPolicy() FlushPolicy {
	return FlushPolicy{EveryN: 10}
}

// Tracker is the self-learning frequency store. Safe for concurrent use.
type Tracker struct {
	mu     sync.Mutex
	counts map[string]int
	total  int // cumulative recorded selections this process
	dirty  bool
	path   string
	policy FlushPolicy
	lock   *flock.Flock
	log    *log.Logger
}

// NewTracker creates a tracker persisting to path. An empty path keeps the
// tracker memory-only.
func NewTracker(path string, policy FlushPolicy) *Tracker {
	t := &Tracker{
		counts: make(map[string]int),
		path:   path,
		policy: policy,
		log:    logger.New("learn"),
	}
	if path != "" {
		t.lock = flock.New(path + ".lock")
	}
	return t
}

func compositeKey(context, candidate string) string {
	return context + keySeparator + candidate
}

// RecordSelection increments the count for (context, candidate) and flushes
// when the policy's batch boundary is hit. A failed flush is logged and
// retried on the next boundary; counts are never lost in-process.
func (t *Tracker) RecordSelection(context, candidate string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.counts[compositeKey(context, candidate)]++
	t.total++
	t.dirty = true

	if t.policy.EveryN > 0 && t.total%t.policy.EveryN == 0 {
		if err := t.flushLocked(); err != nil {
			t.log.Warnf("Deferred preference flush: %v", err)
		}
	}
}

// Count returns the recorded selections for (context, candidate), 0 when
// unseen.
func (t *Tracker) Count(context, candidate string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts[compositeKey(context, candidate)]
}

// Len reports the number of distinct (context, candidate) pairs.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.counts)
}

// Rerank stable-sorts candidates by descending historical count for
// context. It never adds or removes candidates; unseen pairs count as 0,
// so a fully unseen list keeps its order.
func (t *Tracker) Rerank(context string, candidates []string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]string, len(candidates))
	copy(out, candidates)
	sort.SliceStable(out, func(i, j int) bool {
		return t.counts[compositeKey(context, out[i])] > t.counts[compositeKey(context, out[j])]
	})
	return out
}

// Flush persists the counts now.
func (t *Tracker) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.flushLocked()
}

// flushLocked writes the counts file. Callers hold t.mu.
func (t *Tracker) flushLocked() error {
	if t.path == "" || !t.dirty {
		return nil
	}

	if err := t.lock.Lock(); err != nil {
		return errors.Wrap(err, "locking preference file")
	}
	defer t.lock.Unlock()

	data, err := json.MarshalIndent(t.counts, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding preferences")
	}
	if err := utils.WriteFileAtomic(t.path, data); err != nil {
		return errors.Wrapf(err, "writing preferences %s", t.path)
	}
	t.dirty = false
	return nil
}

// Load reads the persisted counts, replacing in-memory state. A missing
// file yields an empty tracker.
func (t *Tracker) Load() error {
	if t.path == "" {
		return nil
	}

	data, err := os.ReadFile(t.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "reading preferences %s", t.path)
	}

	counts := make(map[string]int)
	if err := json.Unmarshal(data, &counts); err != nil {
		return errors.Wrapf(err, "parsing preferences %s", t.path)
	}

	t.mu.Lock()
	t.counts = counts
	t.dirty = false
	t.mu.Unlock()

	t.log.Debugf("Loaded %d user preferences", len(counts))
	return nil
}

// Close flushes any pending counts.
func (t *Tracker) Close() error {
	return t.Flush()
}
