// Package profiles implements the profile operations behind the CLI:
// listing, activating, showing, creating and refreshing profiles.
//
// A Service ties the registry, the profile repositories, the effective
// profile builder and the activation engine together. Every operation
// rediscovers the repositories so it always sees what is on disk.
package profiles
