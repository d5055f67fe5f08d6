package aisjson_test

import (
	"testing"

	"github.com/AIS-Hub/AISHub/internal/aisjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFullDictionary(t *testing.T) {
	o := aisjson.NewObject()
	o.AddInt(aisjson.KeyMMSI, 123456789)
	o.AddString(aisjson.KeyShipName, "TEST SHIP")
	o.AddFloat(aisjson.KeyLat, 12.5)

	out := aisjson.NewStringBuilder(aisjson.DictFull).Build(o)
	assert.Contains(t, out, `"mmsi":123456789`)
	assert.Contains(t, out, `"shipname":"TEST SHIP"`)
	assert.Contains(t, out, `"lat":12.5`)
}

func TestBuildMinimalDictionaryDropsFields(t *testing.T) {
	o := aisjson.NewObject()
	o.AddInt(aisjson.KeyMMSI, 1)
	o.AddString(aisjson.KeyDestination, "ROTTERDAM") // minimal omits destination

	out := aisjson.NewStringBuilder(aisjson.DictMinimal).Build(o)
	assert.Contains(t, out, `"mmsi":1`)
	assert.NotContains(t, out, "destination")
	assert.NotContains(t, out, "ROTTERDAM")
}

func TestParseRoundTrip(t *testing.T) {
	obj, err := aisjson.Parse(`{"mmsi":123,"lat":12.5,"shipname":"ABC","scaled":true}`, aisjson.DictFull)
	require.NoError(t, err)

	v, ok := obj.Get(aisjson.KeyMMSI)
	require.True(t, ok)
	assert.EqualValues(t, 123, v.Int)

	v, ok = obj.Get(aisjson.KeyLat)
	require.True(t, ok)
	assert.Equal(t, 12.5, v.Float)

	v, ok = obj.Get(aisjson.KeyScaled)
	require.True(t, ok)
	assert.True(t, v.Bool)
}

func TestParsePreservesUnknownFields(t *testing.T) {
	obj, err := aisjson.Parse(`{"mmsi":1,"custom_field":"hello"}`, aisjson.DictFull)
	require.NoError(t, err)
	require.Len(t, obj.Extra, 1)
	assert.Equal(t, "custom_field", obj.Extra[0].Name)
	assert.Equal(t, "hello", obj.Extra[0].Value.Str)
}

func TestParseNestedObjectAndArray(t *testing.T) {
	obj, err := aisjson.Parse(`{"nmea":["!AIVDM,1,1,,A,X,0*00"],"device":"AIS-catcher"}`, aisjson.DictFull)
	require.NoError(t, err)
	v, ok := obj.Get(aisjson.KeyNMEA)
	require.True(t, ok)
	require.Equal(t, aisjson.TypeStringArray, v.Type)
	assert.Equal(t, []string{"!AIVDM,1,1,,A,X,0*00"}, v.StrList)
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	_, err := aisjson.Parse(`{"mmsi":}`, aisjson.DictFull)
	assert.Error(t, err)
}
