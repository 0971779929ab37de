package selector

import (
	"sort"

	"github.com/xcode-links/xcache/internal/release"
	"github.com/xcode-links/xcache/internal/version"
)

// DefaultKeepPerFamily keeps a fallback build next to the newest patch.
const DefaultKeepPerFamily = 2

// Options controls Select.
type Options struct {
	// Floor drops releases below this version. Minimum keeps everything.
	Floor version.Version
	// FamilySegments is the number of leading segments in the family key.
	FamilySegments int
	// KeepPerFamily is the number of newest releases kept per family.
	KeepPerFamily int
	// Constraint optionally narrows the selection further.
	Constraint *version.Constraint
}

func (o Options) withDefaults() Options {
	if o.FamilySegments < 1 {
		o.FamilySegments = version.DefaultFamilySegments
	}
	if o.KeepPerFamily < 1 {
		o.KeepPerFamily = DefaultKeepPerFamily
	}
	return o
}

// Select filters releases by floor, groups them by family, keeps the
// KeepPerFamily newest of each family and returns them newest first.
func Select(releases []release.Release, opts Options) []release.Release {
	opts = opts.withDefaults()

	var eligible []release.Release
	for _, r := range releases {
		if r.Version.AtLeast(opts.Floor) && opts.Constraint.Check(r.Version) {
			eligible = append(eligible, r)
		}
	}

	out := topPerFamily(eligible, func(r release.Release) string {
		return version.FamilyKey(r.Version, opts.FamilySegments)
	}, func(r release.Release) version.Version {
		return r.Version
	}, opts.KeepPerFamily)

	sortNewestFirst(out)
	return out
}

// Newest keeps only the single newest release of every family, the way the
// first mirror runs did.
func Newest(releases []release.Release, familySegments int) []release.Release {
	return Select(releases, Options{
		Floor:          version.Minimum,
		FamilySegments: familySegments,
		KeepPerFamily:  1,
	})
}

func sortNewestFirst(rs []release.Release) {
	sort.SliceStable(rs, func(i, j int) bool {
		return rs[j].Version.Less(rs[i].Version)
	})
}

// topPerFamily groups items by key in first-seen order and keeps the keep
// greatest of every group. Equal versions keep their input order.
func topPerFamily[T any](items []T, key func(T) string, ver func(T) version.Version, keep int) []T {
	var order []string
	groups := make(map[string][]T)
	for _, it := range items {
		k := key(it)
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], it)
	}

	var out []T
	for _, k := range order {
		members := groups[k]
		sort.SliceStable(members, func(i, j int) bool {
			return ver(members[j]).Less(ver(members[i]))
		})
		if len(members) > keep {
			members = members[:keep]
		}
		out = append(out, members...)
	}
	return out
}
