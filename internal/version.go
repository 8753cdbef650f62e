package internal

// Version is the storysnippet release version.
const Version = "0.3.0"
