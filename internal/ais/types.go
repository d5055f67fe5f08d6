package ais

// NavStatusNames is the navigation-status enumeration used by types
// 1/2/3 (ITU-R M.1371 table), looked up by DecodePositionReport to fill
// PositionReport.NavStatusStr.
var NavStatusNames = []string{
	"Under way using engine", "At anchor", "Not under command",
	"Restricted manoeuvrability", "Constrained by her draught",
	"Moored", "Aground", "Engaged in fishing", "Under way sailing",
	"Reserved for HSC", "Reserved for WIG", "Reserved", "Reserved",
	"Reserved", "AIS-SART is active", "Not defined",
}

// EPFDNames is the position-fix-device enumeration used by types 4, 5,
// 19, 21.
var EPFDNames = []string{
	"Undefined", "GPS", "GLONASS", "Combined GPS/GLONASS", "Loran-C",
	"Chayka", "Integrated navigation system", "Surveyed", "Galileo",
}

// ShipTypeNames is the coarse shiptype-to-category mapping used by the
// vessel DB's classification step (spec §4.7 setType); full per-digit
// ITU ship/cargo type text is out of scope for this core.
var ShipTypeNames = map[int]string{
	0: "Not available", 20: "Wing in ground", 30: "Fishing",
	31: "Towing", 32: "Towing (large)", 33: "Dredging", 34: "Diving",
	35: "Military", 36: "Sailing", 37: "Pleasure craft",
	40: "High speed craft", 50: "Pilot vessel", 51: "SAR",
	52: "Tug", 53: "Port tender", 54: "Anti-pollution",
	55: "Law enforcement", 58: "Medical", 59: "RR resolution 18",
	60: "Passenger", 70: "Cargo", 80: "Tanker", 90: "Other",
}

// PositionReport is the decoded form of message types 1, 2 and 3
// (Class A position report), the busiest message type on the band.
type PositionReport struct {
	NavStatus    uint64
	NavStatusStr string
	ROT          int64
	SOG          float64
	Accuracy     bool
	Lon, Lat     float64
	COG          float64
	Heading      uint64
	Timestamp    uint64
	Maneuver     uint64
	RAIM         bool
	RadioStatus  uint64
}

// DecodePositionReport decodes types 1/2/3 per ITU-R M.1371 field
// offsets.
func DecodePositionReport(m *Message) PositionReport {
	status, statusStr := m.Enum(38, 4, NavStatusNames)
	return PositionReport{
		NavStatus:    status,
		NavStatusStr: statusStr,
		ROT:          m.Signed(42, 8),
		SOG:          m.ScaledUnsigned(50, 10, 10),
		Accuracy:     m.Unsigned(60, 1) == 1,
		Lon:          m.ScaledSigned(61, 28, 600000),
		Lat:          m.ScaledSigned(89, 27, 600000),
		COG:          m.ScaledUnsigned(116, 12, 10),
		Heading:      m.Unsigned(128, 9),
		Timestamp:    m.Unsigned(137, 6),
		Maneuver:     m.Unsigned(143, 2),
		RAIM:         m.Unsigned(148, 1) == 1,
		RadioStatus:  m.Unsigned(149, 19),
	}
}

// BaseStationReport is the decoded form of message type 4 (and 11,
// UTC/date response, same layout).
type BaseStationReport struct {
	Year, Month, Day, Hour, Minute, Second uint64
	Accuracy                               bool
	Lon, Lat                               float64
	EPFD                                   uint64
	EPFDStr                                string
	RAIM                                   bool
}

// DecodeBaseStationReport decodes type 4/11.
func DecodeBaseStationReport(m *Message) BaseStationReport {
	epfd, epfdStr := m.Enum(134, 4, EPFDNames)
	return BaseStationReport{
		Year:     m.Unsigned(38, 14),
		Month:    m.Unsigned(52, 4),
		Day:      m.Unsigned(56, 5),
		Hour:     m.Unsigned(61, 5),
		Minute:   m.Unsigned(66, 6),
		Second:   m.Unsigned(72, 6),
		Accuracy: m.Unsigned(78, 1) == 1,
		Lon:      m.ScaledSigned(79, 28, 600000),
		Lat:      m.ScaledSigned(107, 27, 600000),
		EPFD:     epfd,
		EPFDStr:  epfdStr,
		RAIM:     m.Unsigned(148, 1) == 1,
	}
}

// StaticVoyageData is the decoded form of message type 5 (static and
// voyage-related data).
type StaticVoyageData struct {
	AISVersion                          uint64
	IMO                                 uint64
	Callsign, ShipName                  string
	ShipType                            uint64
	ShipTypeStr                         string
	DimBow, DimStern, DimPort, DimStarboard uint64
	EPFD                                uint64
	EPFDStr                             string
	ETAMonth, ETADay, ETAHour, ETAMinute uint64
	Draught                             float64
	Destination                         string
	DTE                                 bool
}

// DecodeStaticVoyageData decodes type 5.
func DecodeStaticVoyageData(m *Message) StaticVoyageData {
	epfd, epfdStr := m.Enum(270, 4, EPFDNames)
	shiptype := m.Unsigned(232, 8)
	return StaticVoyageData{
		AISVersion:  m.Unsigned(38, 2),
		IMO:         m.Unsigned(40, 30),
		Callsign:    m.Text6(70, 7),
		ShipName:    m.Text6(112, 20),
		ShipType:    shiptype,
		ShipTypeStr: shipTypeCategory(int(shiptype)),
		DimBow:      m.Unsigned(240, 9),
		DimStern:    m.Unsigned(249, 9),
		DimPort:     m.Unsigned(258, 6),
		DimStarboard: m.Unsigned(264, 6),
		EPFD:        epfd,
		EPFDStr:     epfdStr,
		ETAMonth:    m.Unsigned(274, 4),
		ETADay:      m.Unsigned(278, 5),
		ETAHour:     m.Unsigned(283, 5),
		ETAMinute:   m.Unsigned(288, 6),
		Draught:     m.ScaledUnsigned(294, 8, 10),
		Destination: m.Text6(302, 20),
		DTE:         m.Unsigned(422, 1) == 1,
	}
}

// shipTypeCategory rounds an ITU ship/cargo type code down to its
// reported decade bucket, matching ShipTypeNames' granularity.
func shipTypeCategory(code int) string {
	bucket := (code / 10) * 10
	if s, ok := ShipTypeNames[bucket]; ok {
		return s
	}
	return "Other"
}

// SARAircraftReport is the decoded form of message type 9.
type SARAircraftReport struct {
	Altitude    uint64
	SOG         uint64
	Accuracy    bool
	Lon, Lat    float64
	COG         float64
	Timestamp   uint64
	RAIM        bool
}

// DecodeSARAircraftReport decodes type 9.
func DecodeSARAircraftReport(m *Message) SARAircraftReport {
	return SARAircraftReport{
		Altitude:  m.Unsigned(38, 12),
		SOG:       m.Unsigned(50, 10),
		Accuracy:  m.Unsigned(60, 1) == 1,
		Lon:       m.ScaledSigned(61, 28, 600000),
		Lat:       m.ScaledSigned(89, 27, 600000),
		COG:       m.ScaledUnsigned(116, 12, 10),
		Timestamp: m.Unsigned(128, 6),
		RAIM:      m.Unsigned(147, 1) == 1,
	}
}

// ClassBPositionReport is the decoded form of message types 18 and 19
// (Class B position report, standard and extended).
type ClassBPositionReport struct {
	SOG          float64
	Accuracy     bool
	Lon, Lat     float64
	COG          float64
	Heading      uint64
	Timestamp    uint64
	ShipName     string // type 19 only
	ShipType     uint64 // type 19 only
	ShipTypeStr  string
	RAIM         bool
}

// DecodeClassBPositionReport decodes type 18/19; extended is true for
// type 19 (which carries name/shiptype/dimensions beyond offset 139).
func DecodeClassBPositionReport(m *Message, extended bool) ClassBPositionReport {
	r := ClassBPositionReport{
		SOG:       m.ScaledUnsigned(46, 10, 10),
		Accuracy:  m.Unsigned(56, 1) == 1,
		Lon:       m.ScaledSigned(57, 28, 600000),
		Lat:       m.ScaledSigned(85, 27, 600000),
		COG:       m.ScaledUnsigned(112, 12, 10),
		Heading:   m.Unsigned(124, 9),
		Timestamp: m.Unsigned(133, 6),
	}
	if extended {
		r.ShipName = m.Text6(143, 20)
		shiptype := m.Unsigned(263, 8)
		r.ShipType = shiptype
		r.ShipTypeStr = shipTypeCategory(int(shiptype))
		r.RAIM = m.Unsigned(302, 1) == 1
	} else {
		r.RAIM = m.Unsigned(147, 1) == 1
	}
	return r
}

// AidToNavigationReport is the decoded form of message type 21.
type AidToNavigationReport struct {
	AidType     uint64
	Name        string
	Accuracy    bool
	Lon, Lat    float64
	EPFD        uint64
	EPFDStr     string
	VirtualAid  bool
	Assigned    bool
}

// DecodeAidToNavigationReport decodes type 21.
func DecodeAidToNavigationReport(m *Message) AidToNavigationReport {
	epfd, epfdStr := m.Enum(249, 4, EPFDNames)
	name := m.Text6(43, 20)
	if m.Len() > 272 {
		name += m.Text6(272, (m.Len()-272)/6)
	}
	return AidToNavigationReport{
		AidType:    m.Unsigned(38, 5),
		Name:       name,
		Accuracy:   m.Unsigned(163, 1) == 1,
		Lon:        m.ScaledSigned(164, 28, 600000),
		Lat:        m.ScaledSigned(192, 27, 600000),
		EPFD:       epfd,
		EPFDStr:    epfdStr,
		VirtualAid: m.Unsigned(269, 1) == 1,
		Assigned:   m.Unsigned(270, 1) == 1,
	}
}

// StaticDataReport is the decoded form of message type 24 (parts A and
// B); only the fields relevant to the part present are populated.
type StaticDataReport struct {
	PartNumber uint64
	ShipName   string // part A
	ShipType   uint64 // part B
	VendorID   string // part B
	Callsign   string // part B
	DimBow, DimStern, DimPort, DimStarboard uint64 // part B
}

// DecodeStaticDataReport decodes type 24 parts A/B.
func DecodeStaticDataReport(m *Message) StaticDataReport {
	part := m.Unsigned(38, 2)
	r := StaticDataReport{PartNumber: part}
	if part == 0 {
		r.ShipName = m.Text6(40, 20)
		return r
	}
	r.ShipType = m.Unsigned(40, 8)
	r.VendorID = m.Text6(48, 7)
	r.Callsign = m.Text6(90, 7)
	r.DimBow = m.Unsigned(132, 9)
	r.DimStern = m.Unsigned(141, 9)
	r.DimPort = m.Unsigned(150, 6)
	r.DimStarboard = m.Unsigned(156, 6)
	return r
}

// LongRangeReport is the decoded form of message type 27 (long-range
// broadcast). Spec §3 invariant: "Messages of type 27 overwrite lat/lon
// only when the current fix is absent, approximate, or older than a
// speed-dependent timeout".
type LongRangeReport struct {
	Accuracy  bool
	RAIM      bool
	NavStatus uint64
	Lon, Lat  float64
	SOG       float64
	COG       float64
	GNSS      bool
}

// DecodeLongRangeReport decodes type 27.
func DecodeLongRangeReport(m *Message) LongRangeReport {
	return LongRangeReport{
		Accuracy:  m.Unsigned(38, 1) == 1,
		RAIM:      m.Unsigned(39, 1) == 1,
		NavStatus: m.Unsigned(40, 4),
		Lon:       m.ScaledSigned(44, 18, 600),
		Lat:       m.ScaledSigned(62, 17, 600),
		SOG:       m.ScaledUnsigned(79, 6, 1),
		COG:       m.ScaledUnsigned(85, 9, 1),
		GNSS:      m.Unsigned(94, 1) == 0,
	}
}
