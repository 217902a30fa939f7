// Package factors investigates which attributes of a deposit attempt explain
// the change in approval rate between two quarters.
//
// The Encoder restricts the cleaned table to the two quarters and builds a
// gota DataFrame of frequency encoded columns, a period flag and one period
// interaction per encoded column. The Scorer ranks every column by the F-test
// and by a nearest-neighbour mutual information estimate, and the
// LogisticModel fits an L2-regularized logistic regression whose coefficients
// are reported per column.
//
// Scores and fits are deterministic for a fixed seed.
package factors
