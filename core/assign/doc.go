// Package assign implements the schedule-assignment engine. It consumes the
// slot grid, the roster snapshot and a pairing-history snapshot and produces a
// validated schedule plus a report of unscheduled entities.
//
// Assignment is a per-slot greedy over a ranked bipartite candidate set.
// Hard constraints (capacity, availability) are enforced as filters before
// ranking, so the greedy step cannot violate them; novelty and fairness are
// soft objectives expressed through the ranking keys. A full weighted matching
// per slot would give strict optimality, but the slot counts are small and the
// greedy order keeps the output explainable and reproducible.
package assign
