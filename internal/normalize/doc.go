/*
Package normalize maps loosely shaped editor entities onto the closed set of
target variants in package meep.

Every function here is total. Malformed or legacy input never produces an
error; it resolves to a documented default instead. Where a default was
chosen because nothing better matched, the result says so (see Resolution),
so callers can log the fallback without the normalizer needing a logger.

# Source kinds

Source kind resolution is an explicit decision table rather than ad hoc
field probing:

 1. The first non-empty tag among TagSources is lower-cased and matched
    against TagRules in order; the first rule with a matching substring
    wins.
 2. If that tag matched nothing (or no tag was set), Heuristics are tried in
    order against the attribute bag.
 3. Otherwise the source is continuous.

An explicit tag therefore always beats a structural hint: a source tagged
"gaussian" that also carries an eig_band field is a Gaussian source.

# Geometry lift

The editor is two-dimensional. Circles become infinite-height cylinders,
rectangles become blocks with an infinite z extent, three-vertex triangles
and polygons become prisms, and triangles without vertex data fall back to a
120 degree wedge.
*/
package normalize
