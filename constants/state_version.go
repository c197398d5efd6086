package constants

// State files carry a version so that older state produced by previous
// releases keeps resuming correctly when cursor formatting rules change.
//
// Version History:
//   - Version 0: Legacy format. Cursor values were persisted with whatever Go
//     type the driver produced, which made state files non-portable between
//     drivers.
//   - Version 1: Current version. Cursor values are persisted as strings
//     (FormatCursorValue) and typecast back against the stream schema when the
//     state is read, so a timestamp cursor survives a restart byte-identical.
const (
	LatestStateVersion = 1
)
