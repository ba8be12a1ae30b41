package report

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"logistics_router/pkg/network"
	"logistics_router/pkg/routing"
)

// Route and marker colors.
const (
	ColorTimeRoute     = "#E67E22"
	ColorEcoRoute      = "#27AE60"
	ColorLastMileRoute = "#F79B34"
)

// MarkerStyle is how a node kind is drawn on a map.
type MarkerStyle struct {
	Color string
	Icon  string
	Label string
}

// StyleFor returns the marker style of a node kind.
func StyleFor(kind network.NodeKind) MarkerStyle {
	switch kind {
	case network.KindOrigin:
		return MarkerStyle{Color: "#FF9900", Icon: "warehouse", Label: "Fulfillment Center"}
	case network.KindHub:
		return MarkerStyle{Color: "#146EB4", Icon: "industry", Label: "Hub"}
	case network.KindLastMile:
		return MarkerStyle{Color: "#37475A", Icon: "truck", Label: "Last-Mile Station"}
	case network.KindDestination:
		return MarkerStyle{Color: "#232F3E", Icon: "home", Label: "Customer"}
	}
	return MarkerStyle{Color: "#999999", Icon: "circle", Label: kind.String()}
}

// GeoJSON renders nodes, edges and both routes as a feature collection.
// Every feature carries a "layer" property: node, edge, time_route,
// eco_route or last_mile_hop.
func GeoJSON(net *network.Network, res *routing.Result) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, nd := range net.Nodes {
		f := geojson.NewFeature(nd.Point)
		style := StyleFor(nd.Kind)
		f.Properties["layer"] = "node"
		f.Properties["id"] = nd.ID
		f.Properties["name"] = nd.Name
		f.Properties["kind"] = nd.Kind.String()
		f.Properties["marker-color"] = style.Color
		f.Properties["marker-symbol"] = style.Icon
		f.Properties["label"] = style.Label
		detailProperties(f.Properties, nd.Detail)
		fc.Append(f)
	}

	for _, e := range net.Edges {
		f := geojson.NewFeature(orb.LineString{net.Nodes[e.U].Point, net.Nodes[e.V].Point})
		f.Properties["layer"] = "edge"
		f.Properties["from"] = net.Nodes[e.U].ID
		f.Properties["to"] = net.Nodes[e.V].ID
		f.Properties["mode"] = e.Mode.String()
		f.Properties["distance_km"] = e.DistanceKm
		f.Properties["avg_speed_kmh"] = e.AvgSpeedKmh
		f.Properties["carbon_per_km"] = e.CarbonPerKm
		f.Properties["cost_per_km"] = e.CostPerKm
		f.Properties["urban_sensitivity"] = e.UrbanSensitivity
		f.Properties["time_hours"] = e.TimeHours()
		f.Properties["carbon_kg"] = e.CarbonKg()
		f.Properties["cost"] = e.Cost()
		fc.Append(f)
	}

	if res != nil {
		appendRoute(fc, net, res.Time, "time_route", ColorTimeRoute)
		appendRoute(fc, net, res.Carbon, "eco_route", ColorEcoRoute)
	}
	return fc
}

func appendRoute(fc *geojson.FeatureCollection, net *network.Network, p routing.Path, layer, color string) {
	nodes := p.Nodes
	if p.Unverified {
		nodes = nodes[:len(nodes)-1]
	}

	line := make(orb.LineString, len(nodes))
	for i, idx := range nodes {
		line[i] = net.Nodes[idx].Point
	}
	f := geojson.NewFeature(line)
	f.Properties["layer"] = layer
	f.Properties["stroke"] = color
	f.Properties["path"] = net.PathIDs(nodes)
	fc.Append(f)

	if from, to, ok := p.FinalHop(); ok && p.Unverified {
		hop := geojson.NewFeature(orb.LineString{net.Nodes[from].Point, net.Nodes[to].Point})
		hop.Properties["layer"] = "last_mile_hop"
		hop.Properties["route"] = layer
		hop.Properties["stroke"] = ColorLastMileRoute
		hop.Properties["estimated"] = true
		fc.Append(hop)
	}
}

// detailProperties copies node metadata onto feature properties.
func detailProperties(props geojson.Properties, d network.Detail) {
	switch d := d.(type) {
	case network.OriginDetail:
		props["capacity"] = d.Capacity
		props["operating_hours"] = d.OperatingHours
	case network.HubDetail:
		props["class"] = d.Class
		props["capacity_k_units_per_day"] = d.CapacityKUnitsPerDay
		props["service_level"] = d.ServiceLevel
	case network.LastMileDetail:
		props["vehicles"] = d.Vehicles
		props["delivery_radius_km"] = d.DeliveryRadiusKm
	case network.DestinationDetail:
		props["service_tier"] = d.ServiceTier
	case nil:
	}
}
