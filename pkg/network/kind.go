package network

import "fmt"

// NodeKind is the role a node plays in the logistics network.
type NodeKind uint8

const (
	KindOrigin NodeKind = iota
	KindHub
	KindLastMile
	KindDestination
)

// String returns the wire name of the kind.
func (k NodeKind) String() string {
	switch k {
	case KindOrigin:
		return "origin"
	case KindHub:
		return "hub"
	case KindLastMile:
		return "last_mile"
	case KindDestination:
		return "destination"
	}
	return fmt.Sprintf("NodeKind(%d)", uint8(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k NodeKind) MarshalText() ([]byte, error) {
	switch k {
	case KindOrigin, KindHub, KindLastMile, KindDestination:
		return []byte(k.String()), nil
	}
	return nil, fmt.Errorf("network: unknown node kind %d", uint8(k))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *NodeKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "origin":
		*k = KindOrigin
	case "hub":
		*k = KindHub
	case "last_mile":
		*k = KindLastMile
	case "destination":
		*k = KindDestination
	default:
		return fmt.Errorf("network: unknown node kind %q", b)
	}
	return nil
}

// Mode is the transport mode of an edge.
type Mode uint8

const (
	ModeEVTruck Mode = iota
	ModeDieselTruck
	ModeLNGTruck
	ModeRail
)

// Modes lists every transport mode in declaration order.
var Modes = [...]Mode{ModeEVTruck, ModeDieselTruck, ModeLNGTruck, ModeRail}

func (m Mode) String() string {
	switch m {
	case ModeEVTruck:
		return "ev_truck"
	case ModeDieselTruck:
		return "diesel_truck"
	case ModeLNGTruck:
		return "lng_truck"
	case ModeRail:
		return "rail"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	switch m {
	case ModeEVTruck, ModeDieselTruck, ModeLNGTruck, ModeRail:
		return []byte(m.String()), nil
	}
	return nil, fmt.Errorf("network: unknown mode %d", uint8(m))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	for _, mode := range Modes {
		if mode.String() == string(b) {
			*m = mode
			return nil
		}
	}
	return fmt.Errorf("network: unknown mode %q", b)
}

// Electric reports whether the mode runs on electricity.
func (m Mode) Electric() bool {
	return m == ModeEVTruck
}

// Detail is per-kind node metadata. It is carried for reporting only and
// is never read by synthesis or path solving. The set of implementations
// is closed: OriginDetail, HubDetail, LastMileDetail, DestinationDetail.
type Detail interface {
	Kind() NodeKind
}

// OriginDetail describes the seller's fulfillment center.
type OriginDetail struct {
	Capacity       string `json:"capacity"`
	OperatingHours string `json:"operating_hours"`
}

// HubDetail describes an intermediate hub.
type HubDetail struct {
	Class                string `json:"class"`
	CapacityKUnitsPerDay int    `json:"capacity_k_units_per_day"`
	ServiceLevel         string `json:"service_level"`
}

// LastMileDetail describes a neighborhood delivery point.
type LastMileDetail struct {
	Vehicles         string `json:"vehicles"`
	DeliveryRadiusKm int    `json:"delivery_radius_km"`
}

// DestinationDetail describes the consumer.
type DestinationDetail struct {
	ServiceTier string `json:"service_tier"`
}

func (OriginDetail) Kind() NodeKind      { return KindOrigin }
func (HubDetail) Kind() NodeKind         { return KindHub }
func (LastMileDetail) Kind() NodeKind    { return KindLastMile }
func (DestinationDetail) Kind() NodeKind { return KindDestination }
