package robot

// headingGuard holds heading correction on for the lifetime of one motion
// command. Release must run on every exit path, so callers defer it.
type headingGuard struct {
	drive DriveBase
}

func acquireHeading(drive DriveBase) headingGuard {
	drive.UseGyro(true)
	return headingGuard{drive: drive}
}

func (g headingGuard) Release() {
	g.drive.UseGyro(false)
}

// withHeading runs fn with heading correction enabled.
func withHeading(drive DriveBase, fn func() error) error {
	g := acquireHeading(drive)
	defer g.Release()
	return fn()
}
