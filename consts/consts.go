package consts

// Version is the current release version. Overridden at build time with ldflags
var Version = "v0.1.0"
