package arcow

// Version information for the arcow handle library.
const (
	// Version is the current version of the library.
	Version = "0.2.0"

	// VersionMajor is the major version number.
	VersionMajor = 0

	// VersionMinor is the minor version number.
	VersionMinor = 2

	// VersionPatch is the patch version number.
	VersionPatch = 0
)
