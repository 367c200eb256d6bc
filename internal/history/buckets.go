package history

// Bucket groups the commits that belong to one release.
type Bucket struct {
	// Tag is the release tag. It is the zero value for the pending bucket.
	Tag Tag
	// Previous is the preceding release tag, zero for the first release.
	Previous Tag
	// Commits are reachable from Tag but not from Previous, in source order.
	Commits []Commit
}

// Pending reports whether the bucket holds unreleased commits after the newest tag.
func (b Bucket) Pending() bool {
	return b.Tag.Name == ""
}

// Buckets partitions history into one bucket per tag, oldest first.
// The first bucket captures everything before the earliest tag.
func (s *Snapshot) Buckets() []Bucket {
	buckets := make([]Bucket, 0, len(s.tags))
	var previous Tag
	for _, t := range s.tags {
		buckets = append(buckets, Bucket{
			Tag:      t,
			Previous: previous,
			Commits:  s.Range(previous.Commit, t.Commit),
		})
		previous = t
	}
	return buckets
}

// PendingBucket returns the commits reachable from HEAD but not from the newest tag.
func (s *Snapshot) PendingBucket() Bucket {
	latest, _ := s.LatestTag()
	return Bucket{
		Previous: latest,
		Commits:  s.Range(latest.Commit, s.Head),
	}
}
