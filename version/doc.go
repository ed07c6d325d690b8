// Package version reports the build version of personctl.
package version
