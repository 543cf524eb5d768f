package assign

import (
	"time"

	"github.com/techstars-london/mentormagic/core/history"
	"github.com/techstars-london/mentormagic/core/logger"
	"github.com/techstars-london/mentormagic/core/model"
	"github.com/techstars-london/mentormagic/core/roster"
	"github.com/techstars-london/mentormagic/core/slots"
)

// Unscheduled reason codes.
const (
	ReasonNoCapacity       = "no_capacity"
	ReasonFullyUnavailable = "fully_unavailable"
)

// UnscheduledEntity identifies a mentor or company that received no meeting
// during the run. This is reported output, not an error.
type UnscheduledEntity struct {
	Kind   string `json:"kind"` // "mentor" or "company"
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// Result is the output of one assignment run.
type Result struct {
	Schedule    model.Schedule
	Unscheduled []UnscheduledEntity
	// Repeats counts meetings that repeat a pair already present in the
	// pairing-history snapshot.
	Repeats int
}

// Engine produces a conflict-free, capacity-respecting schedule for one date.
// One invocation is a pure function of (grid, roster snapshot, history
// snapshot); identical inputs yield byte-identical schedules.
type Engine struct {
	log logger.Logger
}

// New creates an engine logging through the given logger.
func New(log logger.Logger) *Engine {
	return &Engine{log: log}
}

// pairKey identifies a (mentor, company) pairing within one run.
type pairKey struct {
	mentor  string
	company string
}

// candidate is one eligible (mentor, company) pairing for the slot under
// consideration, with its ranking keys precomputed.
type candidate struct {
	mentor  model.Mentor
	company model.Company
	repeat  bool // pair already met per history or earlier today
	load    int  // meeting count of the less-booked side
	novelty int  // novel partners remaining for the tighter side
}

// better reports whether c ranks ahead of o. Novel pairs come first, then the
// less-booked side's count ascending, then the side with fewest novel partners
// remaining, then identifier order. The last two keys pin down a deterministic
// result and keep the greedy step from stranding the most constrained entity.
func (c candidate) better(o candidate) bool {
	if c.repeat != o.repeat {
		return !c.repeat
	}
	if c.load != o.load {
		return c.load < o.load
	}
	if c.novelty != o.novelty {
		return c.novelty < o.novelty
	}
	if c.mentor.ID != o.mentor.ID {
		return c.mentor.ID < o.mentor.ID
	}
	return c.company.ID < o.company.ID
}

// Assign runs the scheduling algorithm for one date. The roster is validated
// against the grid before any assignment; an invalid roster aborts the run
// with a model.IntegrityError. The assembled schedule is re-validated
// independently before it is returned.
func (e *Engine) Assign(grid slots.Grid, store *roster.Store, hist *history.Snapshot, date string) (Result, error) {
	start := time.Now()
	defer func() { assignDuration.Observe(time.Since(start).Seconds()) }()

	if err := store.Validate(grid); err != nil {
		return Result{}, err
	}
	if grid.Len() == 0 {
		e.log.Warnf("empty slot grid for %s, producing empty schedule", date)
		return Result{Schedule: model.Schedule{Date: date}}, nil
	}

	mentors := store.Mentors()
	companies := store.Companies()

	mentorCount := make(map[string]int, len(mentors))
	companyCount := make(map[string]int, len(companies))
	metToday := make(map[pairKey]struct{})

	sched := model.Schedule{Date: date}
	repeats := 0

	for _, slot := range grid.Slots() {
		assignedMentor := make(map[string]struct{})
		companySlot := make(map[string]int)

		for {
			c, ok := e.pick(slot.Index, mentors, companies, mentorCount, companyCount,
				assignedMentor, companySlot, metToday, hist)
			if !ok {
				break
			}
			sched.Meetings = append(sched.Meetings, model.Meeting{
				MentorID:  c.mentor.ID,
				CompanyID: c.company.ID,
				Slot:      slot.Index,
				Date:      date,
			})
			assignedMentor[c.mentor.ID] = struct{}{}
			companySlot[c.company.ID]++
			mentorCount[c.mentor.ID]++
			companyCount[c.company.ID]++
			metToday[pairKey{c.mentor.ID, c.company.ID}] = struct{}{}
			if hist.HasMet(c.mentor.ID, c.company.ID) {
				repeats++
				e.log.Debugw("repeat pairing scheduled", map[string]any{
					"mentor":  c.mentor.ID,
					"company": c.company.ID,
					"slot":    slot.Index,
				})
			}
		}
	}

	if err := Validate(grid, mentors, companies, sched); err != nil {
		return Result{}, err
	}

	res := Result{
		Schedule:    sched,
		Unscheduled: e.unscheduled(grid, mentors, companies, mentorCount, companyCount),
		Repeats:     repeats,
	}
	meetingsScheduled.Add(float64(len(sched.Meetings)))
	repeatPairs.Add(float64(repeats))
	for _, u := range res.Unscheduled {
		unscheduledEntities.WithLabelValues(u.Kind, u.Reason).Inc()
	}
	e.log.Infof("assigned %d meetings for %s (%d repeats, %d unscheduled)",
		len(sched.Meetings), date, repeats, len(res.Unscheduled))
	return res, nil
}

// pick selects the highest-ranked eligible pairing for the slot, or reports
// that none remains.
func (e *Engine) pick(slot int, mentors []model.Mentor, companies []model.Company,
	mentorCount, companyCount map[string]int,
	assignedMentor map[string]struct{}, companySlot map[string]int,
	metToday map[pairKey]struct{}, hist *history.Snapshot) (candidate, bool) {

	var freeMentors []model.Mentor
	for _, m := range mentors {
		if _, busy := assignedMentor[m.ID]; busy {
			continue
		}
		if mentorCount[m.ID] >= m.MaxPerDay || m.UnavailableIn(slot) {
			continue
		}
		freeMentors = append(freeMentors, m)
	}
	var freeCompanies []model.Company
	for _, c := range companies {
		if companySlot[c.ID] >= c.SlotCapacity || c.UnavailableIn(slot) {
			continue
		}
		freeCompanies = append(freeCompanies, c)
	}
	if len(freeMentors) == 0 || len(freeCompanies) == 0 {
		return candidate{}, false
	}

	novel := func(m, c string) bool {
		if _, today := metToday[pairKey{m, c}]; today {
			return false
		}
		return !hist.HasMet(m, c)
	}

	// Novel partners remaining inside this slot's eligible sets, per entity.
	mentorNovel := make(map[string]int, len(freeMentors))
	companyNovel := make(map[string]int, len(freeCompanies))
	for _, m := range freeMentors {
		for _, c := range freeCompanies {
			if novel(m.ID, c.ID) {
				mentorNovel[m.ID]++
				companyNovel[c.ID]++
			}
		}
	}

	var best candidate
	found := false
	for _, m := range freeMentors {
		for _, c := range freeCompanies {
			load := mentorCount[m.ID]
			if companyCount[c.ID] < load {
				load = companyCount[c.ID]
			}
			nov := mentorNovel[m.ID]
			if companyNovel[c.ID] < nov {
				nov = companyNovel[c.ID]
			}
			cand := candidate{
				mentor:  m,
				company: c,
				repeat:  !novel(m.ID, c.ID),
				load:    load,
				novelty: nov,
			}
			if !found || cand.better(best) {
				best = cand
				found = true
			}
		}
	}
	return best, found
}

// unscheduled reports every entity that received no meeting over the run,
// classifying why.
func (e *Engine) unscheduled(grid slots.Grid, mentors []model.Mentor, companies []model.Company,
	mentorCount, companyCount map[string]int) []UnscheduledEntity {

	availableSomewhere := func(unavailable map[int]struct{}) bool {
		for _, s := range grid.Slots() {
			if _, ok := unavailable[s.Index]; !ok {
				return true
			}
		}
		return false
	}

	var out []UnscheduledEntity
	for _, m := range mentors {
		if mentorCount[m.ID] > 0 {
			continue
		}
		reason := ReasonNoCapacity
		if !availableSomewhere(m.Unavailable) {
			reason = ReasonFullyUnavailable
		}
		out = append(out, UnscheduledEntity{Kind: "mentor", ID: m.ID, Reason: reason})
	}
	for _, c := range companies {
		if companyCount[c.ID] > 0 {
			continue
		}
		reason := ReasonNoCapacity
		if !availableSomewhere(c.Unavailable) {
			reason = ReasonFullyUnavailable
		}
		out = append(out, UnscheduledEntity{Kind: "company", ID: c.ID, Reason: reason})
	}
	return out
}
