package common

import (
	"github.com/coreos/go-semver/semver"
)

// CompareMajorMinorVersions compares Major and Minor portions of semver versions
func CompareMajorMinorVersions(a, b semver.Version) int {
	a.PreRelease = semver.PreRelease("")
	b.PreRelease = semver.PreRelease("")
	//Ignore
	a.Patch = 0
	b.Patch = 0
	return a.Compare(b)
}

// NodeUpgradeAvailable reports whether a pool's node version trails the
// control plane by at least a minor version. GKE versions look like
// "1.29.7-gke.1008000"; the gke suffix parses as a prerelease and is ignored.
func NodeUpgradeAvailable(masterVersion, nodeVersion string) bool {
	master, err := semver.NewVersion(masterVersion)
	if err != nil {
		return false
	}
	node, err := semver.NewVersion(nodeVersion)
	if err != nil {
		return false
	}
	return CompareMajorMinorVersions(*node, *master) < 0
}
