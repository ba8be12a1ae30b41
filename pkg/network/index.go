package network

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/tidwall/rtree"

	"logistics_router/pkg/geo"
)

// initialSearchKm is the first search radius used by Nearest. Hubs are
// spread along a corridor, so a few doublings usually suffice.
const initialSearchKm = 25.0

const boxPad = 1.05

// HubIndex is an R-tree over the hub nodes of a node set, used to find the
// hubs nearest to a point.
type HubIndex struct {
	tr    rtree.RTreeG[uint32]
	nodes []Node
	count int
}

// NewHubIndex indexes every node of kind KindHub. Returned indexes refer
// to positions in nodes.
func NewHubIndex(nodes []Node) *HubIndex {
	ix := &HubIndex{nodes: nodes}
	for i, nd := range nodes {
		if nd.Kind != KindHub {
			continue
		}
		pt := [2]float64{nd.Point.Lon(), nd.Point.Lat()}
		ix.tr.Insert(pt, pt, uint32(i))
		ix.count++
	}
	return ix
}

// Len returns the number of indexed hubs.
func (ix *HubIndex) Len() int { return ix.count }

type hubCandidate struct {
	idx  uint32
	dist float64
}

// Nearest returns up to k hub indexes ordered by great-circle distance from
// p, ties broken by node index. If fewer than k hubs exist, all are returned.
func (ix *HubIndex) Nearest(p orb.Point, k int) []uint32 {
	if k <= 0 || ix.count == 0 {
		return nil
	}
	if k > ix.count {
		k = ix.count
	}

	radius := initialSearchKm
	for {
		cands := ix.within(p, radius)
		if len(cands) >= k {
			kth := cands[k-1].dist
			// Every hub closer than kth lies inside a box of radius kth.
			if kth <= radius || len(cands) == ix.count {
				out := make([]uint32, k)
				for i := range out {
					out[i] = cands[i].idx
				}
				return out
			}
			radius = kth
			continue
		}
		radius *= 2
	}
}

// within returns hubs inside a lat/lon box that encloses the disc of the
// given radius around p, sorted by distance then index. A box crossing
// ±180° longitude is also searched on the other side.
func (ix *HubIndex) within(p orb.Point, radiusKm float64) []hubCandidate {
	dLat := geo.KmToDegrees(radiusKm)
	// Widen longitude using the most poleward latitude the disc can reach,
	// plus a small pad since great circles bow poleward of the parallel.
	farLat := math.Min(math.Abs(p.Lat())+dLat, 90)
	dLon := geo.LonDegrees(radiusKm*boxPad, farLat)

	minLat, maxLat := p.Lat()-dLat, p.Lat()+dLat
	minLon, maxLon := p.Lon()-dLon, p.Lon()+dLon

	var cands []hubCandidate
	collect := func(_, _ [2]float64, idx uint32) bool {
		cands = append(cands, hubCandidate{idx: idx, dist: geo.Distance(p, ix.nodes[idx].Point)})
		return true
	}

	if dLon >= 180 {
		ix.tr.Search([2]float64{-180, minLat}, [2]float64{180, maxLat}, collect)
	} else {
		ix.tr.Search([2]float64{minLon, minLat}, [2]float64{maxLon, maxLat}, collect)
		if minLon < -180 {
			ix.tr.Search([2]float64{minLon + 360, minLat}, [2]float64{180, maxLat}, collect)
		}
		if maxLon > 180 {
			ix.tr.Search([2]float64{-180, minLat}, [2]float64{maxLon - 360, maxLat}, collect)
		}
	}
	sort.Slice(cands, func(i, j int) bool {
		if cands[i].dist != cands[j].dist {
			return cands[i].dist < cands[j].dist
		}
		return cands[i].idx < cands[j].idx
	})
	return cands
}
