package mosaic

// MediaContainer is an ordered collection of renderables that declare
// assets. It doesn't own its members; it just holds references so the
// calling code can assemble one asset bundle for everything on a page.
type MediaContainer []MediaDefiner

// Media returns the merged manifest of every member, folded in insertion
// order from the empty manifest, so the bundle lists each reference once at
// its first appearance. The merge is recomputed on every call and always
// reflects the current member list.
func (c MediaContainer) Media() Manifest {
	var media Manifest
	for _, member := range c {
		media = media.Merge(member.Media())
	}
	return media
}
