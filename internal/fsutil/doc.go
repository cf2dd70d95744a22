// Package fsutil holds small file system helpers shared by the stores.
package fsutil
