package types

// Version is the canonical project version.
// The CLI and the report format share this version per the lockstep
// versioning policy.
const Version = "0.1.0"
