package aisjson

import (
	"fmt"

	"github.com/AIS-Hub/AISHub/internal/ais"
	"github.com/AIS-Hub/AISHub/internal/stream"
)

// Encode builds the JSON Object for one decoded AIS message, following
// AIS::JSONAIS::ProcessMsg's field selection (spec §4.6, grounded on
// Library/JSONAIS.h's U/UL/S/SL/E/TURN/B/D/T/TIMESTAMP/ETA per-type
// field helpers, reworked as plain functions over ais.Message since Go
// has no equivalent of the C++ class's protected helper methods).
func Encode(m *ais.Message, decoded ais.Decoded, tag *stream.TAG) *Object {
	o := NewObject()
	o.AddString(KeyClass, "AIS")
	o.AddString(KeyDevice, "AIS-catcher")
	o.AddBool(KeyScaled, true)
	o.AddString(KeyChannel, string(m.Channel))
	if tag != nil {
		o.AddFloat(KeySignalPower, float64(tag.Level))
		o.AddFloat(KeyPPM, float64(tag.PPM))
	}
	o.AddInt(KeyRxTime, m.RxTimeUnix)
	if len(m.NMEA) > 0 {
		o.Add(KeyNMEA, VStringArray(m.NMEA))
	}

	o.AddInt(KeyType, int64(m.Type))
	o.AddInt(KeyRepeat, int64(m.Repeat))
	o.AddInt(KeyMMSI, int64(m.MMSI))

	switch {
	case decoded.Position != nil:
		encodePositionReport(o, decoded.Position)
	case decoded.BaseStation != nil:
		encodeBaseStation(o, decoded.BaseStation)
	case decoded.StaticVoyage != nil:
		encodeStaticVoyage(o, decoded.StaticVoyage)
	case decoded.SARAircraft != nil:
		encodeSARAircraft(o, decoded.SARAircraft)
	case decoded.ClassB != nil:
		encodeClassBPositionReport(o, decoded.ClassB)
	case decoded.AidToNav != nil:
		encodeAidToNav(o, decoded.AidToNav)
	case decoded.StaticData != nil:
		encodeStaticData(o, decoded.StaticData)
	case decoded.LongRange != nil:
		encodeLongRange(o, decoded.LongRange)
	}

	return o
}

// AddBool is a convenience wrapper for the common boolean-field case.
func (o *Object) AddBool(k Key, v bool) { o.Add(k, VBool(v)) }

func encodePositionReport(o *Object, p *ais.PositionReport) {
	o.AddInt(KeyStatus, int64(p.NavStatus))
	o.AddString(KeyStatusText, p.NavStatusStr)
	turn(o, int(p.ROT))
	o.AddFloat(KeySpeed, p.SOG)
	o.AddBool(KeyAccuracy, p.Accuracy)
	o.AddFloat(KeyLon, p.Lon)
	o.AddFloat(KeyLat, p.Lat)
	o.AddFloat(KeyCourse, p.COG)
	o.AddInt(KeyHeading, int64(p.Heading))
	o.AddInt(KeySecond, int64(p.Timestamp))
	o.AddInt(KeyManeuver, int64(p.Maneuver))
	o.AddBool(KeyRAIM, p.RAIM)
	o.AddInt(KeyRadio, int64(p.RadioStatus))
}

func encodeClassBPositionReport(o *Object, p *ais.ClassBPositionReport) {
	o.AddFloat(KeySpeed, p.SOG)
	o.AddBool(KeyAccuracy, p.Accuracy)
	o.AddFloat(KeyLon, p.Lon)
	o.AddFloat(KeyLat, p.Lat)
	o.AddFloat(KeyCourse, p.COG)
	o.AddInt(KeyHeading, int64(p.Heading))
	o.AddInt(KeySecond, int64(p.Timestamp))
	o.AddBool(KeyRAIM, p.RAIM)
	if p.ShipName != "" {
		o.AddString(KeyShipName, p.ShipName)
		o.AddInt(KeyShipType, int64(p.ShipType))
		o.AddString(KeyShipTypeText, p.ShipTypeStr)
	}
}

func encodeBaseStation(o *Object, b *ais.BaseStationReport) {
	o.AddInt(KeyYear, int64(b.Year))
	o.AddInt(KeyMonth, int64(b.Month))
	o.AddInt(KeyDay, int64(b.Day))
	o.AddInt(KeyHour, int64(b.Hour))
	o.AddInt(KeyMinute, int64(b.Minute))
	o.AddBool(KeyAccuracy, b.Accuracy)
	o.AddFloat(KeyLon, b.Lon)
	o.AddFloat(KeyLat, b.Lat)
	o.AddInt(KeyEPFD, int64(b.EPFD))
	o.AddString(KeyEPFDText, b.EPFDStr)
	o.AddBool(KeyRAIM, b.RAIM)
}

func encodeStaticVoyage(o *Object, s *ais.StaticVoyageData) {
	o.AddInt(KeyAISVersion, int64(s.AISVersion))
	o.AddInt(KeyIMO, int64(s.IMO))
	o.AddString(KeyCallsign, s.Callsign)
	o.AddString(KeyShipName, s.ShipName)
	o.AddInt(KeyShipType, int64(s.ShipType))
	o.AddString(KeyShipTypeText, s.ShipTypeStr)
	o.AddInt(KeyToBow, int64(s.DimBow))
	o.AddInt(KeyToStern, int64(s.DimStern))
	o.AddInt(KeyToPort, int64(s.DimPort))
	o.AddInt(KeyToStarboard, int64(s.DimStarboard))
	o.AddInt(KeyEPFD, int64(s.EPFD))
	o.AddString(KeyEPFDText, s.EPFDStr)
	o.AddString(KeyETA, eta(int(s.ETAMonth), int(s.ETADay), int(s.ETAHour), int(s.ETAMinute)))
	o.AddFloat(KeyDraught, s.Draught)
	o.AddString(KeyDestination, s.Destination)
	o.AddBool(KeyDTE, s.DTE)
}

func encodeSARAircraft(o *Object, s *ais.SARAircraftReport) {
	o.AddFloat(KeySpeed, float64(s.SOG))
	o.AddBool(KeyAccuracy, s.Accuracy)
	o.AddFloat(KeyLon, s.Lon)
	o.AddFloat(KeyLat, s.Lat)
	o.AddFloat(KeyCourse, s.COG)
	o.AddInt(KeySecond, int64(s.Timestamp))
	o.AddBool(KeyRAIM, s.RAIM)
}

func encodeAidToNav(o *Object, a *ais.AidToNavigationReport) {
	o.AddInt(KeyAidType, int64(a.AidType))
	o.AddString(KeyName, a.Name)
	o.AddBool(KeyAccuracy, a.Accuracy)
	o.AddFloat(KeyLon, a.Lon)
	o.AddFloat(KeyLat, a.Lat)
	o.AddInt(KeyEPFD, int64(a.EPFD))
	o.AddString(KeyEPFDText, a.EPFDStr)
	o.AddBool(KeyRAIM, false)
	o.AddBool(KeyVirtualAid, a.VirtualAid)
	o.AddBool(KeyAssigned, a.Assigned)
}

func encodeStaticData(o *Object, s *ais.StaticDataReport) {
	o.AddInt(KeyPartNo, int64(s.PartNumber))
	if s.PartNumber == 0 {
		o.AddString(KeyShipName, s.ShipName)
		return
	}
	o.AddInt(KeyShipType, int64(s.ShipType))
	o.AddString(KeyVendorID, s.VendorID)
	o.AddString(KeyCallsign, s.Callsign)
	o.AddInt(KeyToBow, int64(s.DimBow))
	o.AddInt(KeyToStern, int64(s.DimStern))
	o.AddInt(KeyToPort, int64(s.DimPort))
	o.AddInt(KeyToStarboard, int64(s.DimStarboard))
}

func encodeLongRange(o *Object, l *ais.LongRangeReport) {
	o.AddBool(KeyAccuracy, l.Accuracy)
	o.AddBool(KeyRAIM, l.RAIM)
	o.AddInt(KeyStatus, int64(l.NavStatus))
	o.AddFloat(KeyLon, l.Lon)
	o.AddFloat(KeyLat, l.Lat)
	o.AddFloat(KeySpeed, l.SOG)
	o.AddFloat(KeyCourse, l.COG)
}

// turn renders rate-of-turn per ITU-R M.1371's TURN encoding (spec
// §4.6 "TURN"): -128 is "not available"; the AIS-catcher convention
// (mirrored here) reports the special sentinels -127/127 as
// hard-left/hard-right text rather than the squared formula.
func turn(o *Object, rot int) {
	switch rot {
	case -128:
		o.AddString(KeyTurn, "nan")
	case 127:
		o.AddString(KeyTurn, "fastright")
	case -127:
		o.AddString(KeyTurn, "fastleft")
	default:
		sign := 1.0
		if rot < 0 {
			sign = -1.0
			rot = -rot
		}
		v := sign * float64(rot) * float64(rot) / (4.733 * 4.733)
		o.AddFloat(KeyTurn, v)
	}
}

// eta renders the ETA fields per spec §4.6's "ETA" helper: "MM-DD
// HH:MM", with zero fields (the ITU "not available" sentinel)
// preserved literally rather than hidden, matching the original's
// display behaviour.
func eta(month, day, hour, minute int) string {
	return fmt.Sprintf("%02d-%02d %02d:%02d", month, day, hour, minute)
}
