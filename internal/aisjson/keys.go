// Package aisjson renders decoded AIS messages into the AIS-catcher
// style JSON object model: an ordered key/value dictionary, a compact
// string builder (there is no annotated {value,unit,description,text}
// output form), and a recursive-descent parser for
// round-tripping settings/control JSON (spec §4.6, grounded on
// _examples/original_source/Library/JSONAIS.h and JSON/JSON.h).
package aisjson

// DictMode selects which name (or whether to emit at all) a Key maps
// to, mirroring JSON_DICT_FULL/MINIMAL/SPARSE/APRS in the original
// JSON.h.
type DictMode int

const (
	DictFull DictMode = iota
	DictMinimal
	DictSparse
	DictAPRS
)

// Key is a dictionary-coded JSON field name. Using small integer keys
// instead of raw strings lets the same Object be rendered under
// several dictionaries without re-deciding field names at every call
// site (spec §4.6 "KeyMap dictionary").
type Key int

const (
	KeyClass Key = iota
	KeyDevice
	KeyScaled
	KeyChannel
	KeySignalPower
	KeyPPM
	KeyRxTime
	KeyNMEA
	KeyETA
	KeyShipTypeText
	KeyAidTypeText

	KeyMMSI
	KeyType
	KeyRepeat
	KeyStatus
	KeyStatusText
	KeyTurn
	KeySpeed
	KeyAccuracy
	KeyLon
	KeyLat
	KeyCourse
	KeyHeading
	KeySecond
	KeyManeuver
	KeyRAIM
	KeyRadio

	KeyShipName
	KeyCallsign
	KeyShipType
	KeyToBow
	KeyToStern
	KeyToPort
	KeyToStarboard
	KeyEPFD
	KeyEPFDText
	KeyDraught
	KeyDestination
	KeyDTE
	KeyIMO
	KeyAISVersion

	KeyYear
	KeyMonth
	KeyDay
	KeyHour
	KeyMinute

	KeyAidType
	KeyName
	KeyVirtualAid
	KeyOffPosition
	KeyRegional
	KeyAssigned

	KeyPartNo
	KeyVendorID
	KeyModel
	KeySerial

	KeyDAC
	KeyFID
	KeyData
	KeyText

	KeyCountry
	KeyCountryCode

	keyCount
)

// names holds one row per Key: {full, minimal, sparse, aprs}. An empty
// string means "omit this field under that dictionary", matching the
// original KeyMap's blanks.
var names = [keyCount][4]string{
	KeyClass:        {"class", "class", "class", ""},
	KeyDevice:       {"device", "device", "device", ""},
	KeyScaled:       {"scaled", "", "scaled", ""},
	KeyChannel:      {"channel", "channel", "channel", ""},
	KeySignalPower:  {"signalpower", "signalpower", "signalpower", ""},
	KeyPPM:          {"ppm", "ppm", "ppm", ""},
	KeyRxTime:       {"rxtime", "rxtime", "rxtime", "rxtime"},
	KeyNMEA:         {"nmea", "nmea", "nmea", ""},
	KeyETA:          {"eta", "", "eta", ""},
	KeyShipTypeText: {"shiptype_text", "", "shiptype_text", ""},
	KeyAidTypeText:  {"aid_type_text", "", "aid_type_text", ""},

	KeyMMSI:     {"mmsi", "mmsi", "mmsi", "mmsi"},
	KeyType:     {"type", "type", "type", "type"},
	KeyRepeat:   {"repeat", "", "", ""},
	KeyStatus:   {"status", "", "status", ""},
	KeyStatusText: {"status_text", "", "status_text", ""},
	KeyTurn:     {"turn", "", "turn", ""},
	KeySpeed:    {"speed", "speed", "speed", "speed"},
	KeyAccuracy: {"accuracy", "", "accuracy", ""},
	KeyLon:      {"lon", "lon", "lon", "lon"},
	KeyLat:      {"lat", "lat", "lat", "lat"},
	KeyCourse:   {"course", "course", "course", "course"},
	KeyHeading:  {"heading", "heading", "heading", "heading"},
	KeySecond:   {"second", "", "", ""},
	KeyManeuver: {"maneuver", "", "", ""},
	KeyRAIM:     {"raim", "", "", ""},
	KeyRadio:    {"radio", "", "", ""},

	KeyShipName:     {"shipname", "shipname", "shipname", "shipname"},
	KeyCallsign:     {"callsign", "", "callsign", "callsign"},
	KeyShipType:     {"shiptype", "", "shiptype", "shiptype"},
	KeyToBow:        {"to_bow", "", "to_bow", ""},
	KeyToStern:      {"to_stern", "", "to_stern", ""},
	KeyToPort:       {"to_port", "", "to_port", ""},
	KeyToStarboard:  {"to_starboard", "", "to_starboard", ""},
	KeyEPFD:         {"epfd", "", "epfd", ""},
	KeyEPFDText:     {"epfd_text", "", "epfd_text", ""},
	KeyDraught:      {"draught", "", "draught", ""},
	KeyDestination:  {"destination", "", "destination", "destination"},
	KeyDTE:          {"dte", "", "", ""},
	KeyIMO:          {"imo", "", "imo", ""},
	KeyAISVersion:   {"ais_version", "", "", ""},

	KeyYear:   {"year", "", "", ""},
	KeyMonth:  {"month", "", "", ""},
	KeyDay:    {"day", "", "", ""},
	KeyHour:   {"hour", "", "", ""},
	KeyMinute: {"minute", "", "", ""},

	KeyAidType:     {"aid_type", "", "", ""},
	KeyName:        {"name", "", "name", "name"},
	KeyVirtualAid:  {"virtual_aid", "", "", ""},
	KeyOffPosition: {"off_position", "", "", ""},
	KeyRegional:    {"regional", "", "", ""},
	KeyAssigned:    {"assigned", "", "", ""},

	KeyPartNo:   {"partno", "", "", ""},
	KeyVendorID: {"vendorid", "", "", ""},
	KeyModel:    {"model", "", "", ""},
	KeySerial:   {"serial", "", "", ""},

	KeyDAC:  {"dac", "", "dac", ""},
	KeyFID:  {"fid", "", "fid", ""},
	KeyData: {"data", "", "data", ""},
	KeyText: {"text", "", "text", "text"},

	KeyCountry:     {"country", "", "country", ""},
	KeyCountryCode: {"country_code", "", "country_code", ""},
}

// name returns the dictionary-specific field name for k, or "" if k is
// omitted under mode.
func name(k Key, mode DictMode) string {
	if int(k) < 0 || int(k) >= int(keyCount) {
		return ""
	}
	return names[k][mode]
}

// lookupKey finds the Key whose name under mode equals s, used by the
// Parser to turn a parsed field name back into a Key (spec §4.6
// "Parser ... resolves field names through the same dictionary").
func lookupKey(s string, mode DictMode) (Key, bool) {
	for k := Key(0); k < keyCount; k++ {
		if names[k][mode] == s {
			return k, true
		}
	}
	return 0, false
}
