package version

// Version is the current caru release.
const Version = "0.1.0"
