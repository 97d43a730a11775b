// Package reconcile translates platform payment calls into gateway charges and
// gateway charge state back into platform outcomes. Nothing here performs I/O
// except through the collaborators passed in (document lookup, QR rendering).
package reconcile
