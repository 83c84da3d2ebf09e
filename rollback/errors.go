package rollback

import "errors"

var (
	// ErrNotSynchronized is returned while the session is still handshaking.
	ErrNotSynchronized = errors.New("rollback: session not synchronized")
	// ErrPredictionThreshold means the remote side is too far behind to
	// predict another frame. The caller should skip this tick and retry.
	ErrPredictionThreshold = errors.New("rollback: prediction threshold reached")
	// ErrSnapshotMissing means a rollback target was not in the snapshot
	// ring. The session cannot continue.
	ErrSnapshotMissing = errors.New("rollback: snapshot missing")
	// ErrMismatchedChecksum is returned by the sync test when a replay does
	// not reproduce the original state.
	ErrMismatchedChecksum = errors.New("rollback: mismatched checksum")
	ErrInvalidHandle      = errors.New("rollback: invalid player handle")
)

// IsFatal reports whether err ends the session.
func IsFatal(err error) bool {
	return errors.Is(err, ErrSnapshotMissing) || errors.Is(err, ErrMismatchedChecksum)
}
