package compensation

import "errors"

var (
	ErrSchemeNotFound   = errors.New("compensation scheme not found")
	ErrSchemeMissing    = errors.New("no compensation scheme configured for any assigned employee")
	ErrInvalidBonus     = errors.New("invalid period bonus definition")
	ErrTemplateNotFound = errors.New("active report template not found")
	ErrInvalidPeriod    = errors.New("invalid compensation period")
	ErrShiftNotFound    = errors.New("shift not found in payout period")
	ErrShiftAlreadyPaid = errors.New("shift already paid, snapshot is locked")
	ErrShiftNotFinished = errors.New("shift is still active")
	ErrClubIDRequired   = errors.New("club_id claim is missing or invalid")
	ErrEmptyPayout      = errors.New("payout contains no shifts")
	ErrSnapshotConflict = errors.New("shift snapshot changed during payout commit")
	ErrVersionConflict  = errors.New("scheme version already exists")
)
