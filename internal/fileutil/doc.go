// Package fileutil prepares filesystem locations execkit writes to.
//
// Journal databases and lock files are created at caller-chosen paths
// whose directories may not exist yet; PrepareParent makes the parent
// directory chain so the file creation that follows cannot fail with a
// missing-directory error.
package fileutil
