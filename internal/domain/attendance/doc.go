// Package attendance contains the attendance domain model: the roster of
// students, their per-date present/absent records and the statistics
// derived from them.
//
// # Entities
//
//   - Student: identity, name, roll number and an attendance map keyed by
//     date key (YYYY-MM-DD). The map is never nil.
//   - Store: the ordered roster plus the "current date" cursor that mark and
//     clear operations act on.
//
// A student-date pair with no entry is unmarked; Status has only two values.
//
// # Usage
//
//	store, err := attendance.NewStore("2024-01-10")
//	if err != nil {
//	    return err
//	}
//	alice, err := store.AddStudent("Alice", "R1")
//	if err != nil {
//	    return err // ErrEmptyName, ErrDuplicateName, ...
//	}
//	store.MarkAttendance(alice.ID, attendance.StatusPresent)
//	stats := store.DailyStats(store.CurrentDate())
//
// The Store is not safe for concurrent use. Callers that share one Store
// between goroutines serialize access themselves; see the tracker package.
//
// # Persistence
//
// The package defines the Storage (key-value blob surface) and Repository
// (whole-roster snapshot) contracts. Implementations live in
// infrastructure/persistence.
package attendance
