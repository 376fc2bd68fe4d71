package reclaimer

import (
	"time"

	"github.com/elC0mpa/ebs-reclaimer/model"
)

const day = 24 * time.Hour

// policy decides whether a single resource may be reclaimed.
// now is fixed for the whole run so every resource is judged against the same cutoff.
type policy struct {
	now           time.Time
	retentionDays int
	protectTag    string
}

func (p policy) volume(v model.Volume) (int64, model.SkipReason, bool) {
	if len(v.Attachments) > 0 || v.State != model.VolumeStateAvailable {
		return 0, model.SkipInUse, false
	}
	if p.protected(v.Tags) {
		return 0, model.SkipProtected, false
	}
	return p.age(v.CreateTime)
}

func (p policy) snapshot(s model.Snapshot, referenced map[string]struct{}) (int64, model.SkipReason, bool) {
	if _, ok := referenced[s.ID]; ok {
		return 0, model.SkipReferencedByImage, false
	}
	if p.protected(s.Tags) {
		return 0, model.SkipProtected, false
	}
	return p.age(s.StartTime)
}

// age reports the whole days elapsed since created. The threshold is inclusive.
func (p policy) age(created time.Time) (int64, model.SkipReason, bool) {
	if created.IsZero() {
		return 0, model.SkipUnknownAge, false
	}

	elapsed := p.now.Sub(created)
	if elapsed < 0 {
		return 0, model.SkipTooYoung, false
	}

	days := int64(elapsed / day)
	if days < int64(p.retentionDays) {
		return days, model.SkipTooYoung, false
	}

	return days, "", true
}

func (p policy) protected(tags map[string]string) bool {
	if p.protectTag == "" {
		return false
	}
	_, ok := tags[p.protectTag]
	return ok
}
