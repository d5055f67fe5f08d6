// Package vessel implements the MRU vessel database: a fixed-capacity
// table of the most recently heard ships plus their path history,
// classification and range/bearing enrichment relative to the
// receiver's own position (spec §4.7, grounded on
// _examples/original_source/Ships/Ships.h and Tracking/DB.h).
package vessel

import "time"

// Sentinel "not available" values, ported from Ships.h so JSON/path
// output can tell a genuine zero from an absent field.
const (
	LatUndefined       = 91
	LonUndefined       = 181
	DistanceUndefined  = -1
	CourseUndefined    = 360
	SpeedUndefined     = -1
	DraughtUndefined   = -1
	HeadingUndefined   = 511
	StatusUndefined    = 15
	DimensionUndefined = -1
	ETADayUndefined    = 0
	ETAMonthUndefined  = 0
	ETAHourUndefined   = 24
	ETAMinuteUndefined = 60
	IMOUndefined       = 0
	AngleUndefined     = -1
)

// ShippingClass is the coarse icon/category bucket a ship is placed in
// for map rendering, ported from Ships.h's ShippingClass enum.
type ShippingClass int

const (
	ClassOther ShippingClass = iota
	ClassUnknown
	ClassCargo
	ClassB
	ClassPassenger
	ClassSpecial
	ClassTanker
	ClassHighspeed
	ClassFishing
	ClassPlane
	ClassHelicopter
	ClassStation
	ClassAidToNav
	ClassSARTEPIRB
)

// MMSIClass is the MMSI-range-derived station category, ported from
// Ships.h's MMSI_Class enum.
type MMSIClass int

const (
	MMSIOther MMSIClass = iota
	MMSIClassA
	MMSIClassB
	MMSIBaseStation
	MMSISAR
	MMSISARTEPIRB
	MMSIAidToNav
)

// Message-type bitmasks used by getMMSItype, ported bit-for-bit from
// Ships.h (msg_type is the bitmask of every AIS message type ever seen
// from this MMSI: bit i set means type i has been received).
const (
	classAMask       = 1<<1 | 1<<2 | 1<<3
	classBMask       = 1<<18 | 1<<19
	classAStaticMask = 1 << 5
	classBStaticMask = 1 << 24
	baseStationMask  = 1<<4 | 1<<16 | 1<<17 | 1<<20 | 1<<22 | 1<<23
	sarMask          = 1 << 9
	atonMask         = 1 << 21
)

// PathPoint is one recorded position in a ship's track history
// (spec §4.7 "path ring"), ported from Tracking/DB.h's PathPoint.
type PathPoint struct {
	Lat, Lon float32
	MMSI     uint32
	Count    int
	Next     int
}

// Ship is one tracked vessel's current state, ported from Ships.h's
// Ship struct. prev/next thread it into the MRU doubly linked list;
// PathPtr threads it into the path ring.
type Ship struct {
	Prev, Next int
	MMSI       uint32

	Count          int
	MsgTypeMask    uint64 // bit i set => message type i seen from this MMSI
	ShipClass      ShippingClass
	MMSIType       MMSIClass
	Channels       byte // bitmask: bit0='A', bit1='B'
	ShipType       int
	Heading        int
	Status         int
	VirtualAid     bool
	PathPtr        int
	ToPort         int
	ToBow          int
	ToStarboard    int
	ToStern        int
	IMO            int
	Angle          int
	Validated      bool
	Month          int
	Day            int
	Hour           int
	Minute         int
	Lat, Lon       float64
	PPM            float32
	Level          float32
	Speed          float64
	COG            float64
	Draught        float64
	Distance       float64
	LastSignal     time.Time
	Approximate    bool
	ShipName       string
	Destination    string
	Callsign       string
	CountryCode    string
	LastGroupMask  uint64
	GroupMask      uint64
}

// NewShip returns a Ship with every field at its "not available"
// sentinel, matching Ship::reset().
func NewShip(mmsi uint32) *Ship {
	return &Ship{
		MMSI:        mmsi,
		CountryCode: countryCode(mmsi),
		PathPtr:     -1,
		Prev:        -1,
		Next:        -1,
		Heading:     HeadingUndefined,
		Status:      StatusUndefined,
		ToPort:      DimensionUndefined,
		ToBow:       DimensionUndefined,
		ToStarboard: DimensionUndefined,
		ToStern:     DimensionUndefined,
		IMO:         IMOUndefined,
		Angle:       AngleUndefined,
		Month:       ETAMonthUndefined,
		Day:         ETADayUndefined,
		Hour:        ETAHourUndefined,
		Minute:      ETAMinuteUndefined,
		Lat:         LatUndefined,
		Lon:         LonUndefined,
		Distance:    DistanceUndefined,
		Draught:     DraughtUndefined,
		Speed:       SpeedUndefined,
		COG:         CourseUndefined,
		ShipClass:   ClassUnknown,
		MMSIType:    MMSIOther,
	}
}

// getMMSItype classifies mmsi_type from the MMSI number range and the
// union of every message type this MMSI has sent, ported bit-for-bit
// from Ship::getMMSItype.
func (s *Ship) getMMSItype() MMSIClass {
	mmsi := s.MMSI
	if (mmsi > 111000000 && mmsi < 111999999) || (mmsi > 11100000 && mmsi < 11199999) {
		return MMSISAR
	}
	if mmsi >= 970000000 && mmsi <= 980000000 {
		return MMSISARTEPIRB
	}
	if s.MsgTypeMask&atonMask != 0 || (mmsi >= 990000000 && mmsi <= 999999999) {
		return MMSIAidToNav
	}
	if s.MsgTypeMask&classAMask != 0 {
		return MMSIClassA
	}
	if s.MsgTypeMask&classBMask != 0 {
		return MMSIClassB
	}
	if s.MsgTypeMask&baseStationMask != 0 || mmsi < 9000000 {
		return MMSIBaseStation
	}
	if s.MsgTypeMask&sarMask != 0 {
		return MMSISAR
	}
	if s.MsgTypeMask&classAStaticMask != 0 {
		return MMSIClassA
	}
	if s.MsgTypeMask&classBStaticMask != 0 {
		return MMSIClassB
	}
	return MMSIOther
}

// eriCargoTypes/eriTankerTypes/eriSpecialTypes/eriPassengerTypes are the
// ERI inland-shipping codes bucketed by getShipTypeClassEri.
var (
	eriCargoTypes = map[int]bool{
		8030: true, 8010: true, 8070: true, 8210: true, 8220: true,
		8230: true, 8240: true, 8250: true, 8260: true, 8270: true,
		8280: true, 8290: true, 8310: true, 8320: true, 8330: true,
		8340: true, 8350: true, 8360: true, 8370: true, 8380: true,
		8390: true, 8130: true, 8140: true, 8150: true, 8170: true,
		8410: true,
	}
	eriTankerTypes = map[int]bool{
		8020: true, 8021: true, 8022: true, 8023: true, 8040: true,
		8060: true, 8160: true, 8161: true, 8162: true, 8163: true,
		8180: true, 8490: true, 8500: true, 1530: true, 1540: true,
	}
	eriSpecialTypes = map[int]bool{
		8050: true, 8080: true, 8090: true, 8100: true, 8110: true,
		8120: true, 8400: true, 8420: true, 8430: true, 8450: true,
		8460: true, 8470: true, 8510: true,
	}
	eriPassengerTypes = map[int]bool{
		8440: true, 8441: true, 8442: true, 8443: true, 8444: true,
	}
)

// getShipTypeClassEri classifies an ERI inland-shipping type code,
// ported from Ship::getShipTypeClassEri.
func (s *Ship) getShipTypeClassEri() ShippingClass {
	switch {
	case eriCargoTypes[s.ShipType]:
		return ClassCargo
	case eriTankerTypes[s.ShipType]:
		return ClassTanker
	case eriSpecialTypes[s.ShipType]:
		return ClassSpecial
	case eriPassengerTypes[s.ShipType]:
		return ClassPassenger
	case s.ShipType == 8480:
		return ClassFishing
	case s.ShipType == 1850:
		return ClassB
	case s.ShipType == 1900 || s.ShipType == 1910 || s.ShipType == 1920:
		return ClassHighspeed
	default:
		return ClassOther
	}
}

// getShipTypeClass derives the map icon class from mmsi_type and, for
// vessels, the ITU ship/cargo type decade, ported from
// Ship::getShipTypeClass.
func (s *Ship) getShipTypeClass() ShippingClass {
	switch s.MMSIType {
	case MMSIClassA, MMSIClassB:
		c := ClassUnknown
		if s.MMSIType == MMSIClassB {
			c = ClassB
		}
		switch {
		case s.ShipType >= 80 && s.ShipType < 90:
			c = ClassTanker
		case s.ShipType >= 70 && s.ShipType < 80:
			c = ClassCargo
		case s.ShipType >= 60 && s.ShipType < 70:
			c = ClassPassenger
		case s.ShipType >= 40 && s.ShipType < 50:
			c = ClassHighspeed
		case s.ShipType >= 50 && s.ShipType < 60:
			c = ClassSpecial
		case s.ShipType == 30:
			c = ClassFishing
		case (s.ShipType >= 1500 && s.ShipType <= 1920) || (s.ShipType >= 8000 && s.ShipType <= 8510):
			c = s.getShipTypeClassEri()
		}
		return c
	case MMSIBaseStation:
		return ClassStation
	case MMSISAR:
		mmsi := s.MMSI
		if (mmsi > 111000000 && mmsi < 111999999 && (mmsi/100)%10 == 1) ||
			(mmsi > 11100000 && mmsi < 11199999 && (mmsi/10)%10 == 1) {
			return ClassPlane
		}
		return ClassHelicopter
	case MMSISARTEPIRB:
		return ClassSARTEPIRB
	case MMSIAidToNav:
		return ClassAidToNav
	default:
		return ClassUnknown
	}
}

// SetType recomputes MMSIType and ShipClass from the current
// MsgTypeMask/ShipType, ported from Ship::setType. Callers call this
// after recording a new message type against the ship.
func (s *Ship) SetType() {
	s.MMSIType = s.getMMSItype()
	s.ShipClass = s.getShipTypeClass()
}
