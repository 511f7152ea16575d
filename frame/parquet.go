package frame

import (
	"fmt"
	"math"
	"os"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/dkotrba/weatherpipe/schema"
)

// archiveRow is the fixed parquet row shape for a tidy table: the
// (timestamp, model) key plus one nullable field per canonical variable.
// Timestamps are epoch milliseconds UTC.
type archiveRow struct {
	Time  int64  `parquet:"time"`
	Model string `parquet:"model,dict"`

	Temperature2m            *float64 `parquet:"temperature_2m"`
	Relativehumidity2m       *float64 `parquet:"relativehumidity_2m"`
	Dewpoint2m               *float64 `parquet:"dewpoint_2m"`
	ApparentTemperature      *float64 `parquet:"apparent_temperature"`
	Precipitation            *float64 `parquet:"precipitation"`
	Rain                     *float64 `parquet:"rain"`
	Showers                  *float64 `parquet:"showers"`
	Snowfall                 *float64 `parquet:"snowfall"`
	Weathercode              *int32   `parquet:"weathercode"`
	PressureMsl              *float64 `parquet:"pressure_msl"`
	SurfacePressure          *float64 `parquet:"surface_pressure"`
	Cloudcover               *float64 `parquet:"cloudcover"`
	CloudcoverLow            *float64 `parquet:"cloudcover_low"`
	CloudcoverMid            *float64 `parquet:"cloudcover_mid"`
	CloudcoverHigh           *float64 `parquet:"cloudcover_high"`
	Et0FaoEvapotranspiration *float64 `parquet:"et0_fao_evapotranspiration"`
	VaporPressureDeficit     *float64 `parquet:"vapor_pressure_deficit"`
	Windspeed10m             *float64 `parquet:"windspeed_10m"`
	Windspeed100m            *float64 `parquet:"windspeed_100m"`
	Winddirection10m         *float64 `parquet:"winddirection_10m"`
	Winddirection100m        *float64 `parquet:"winddirection_100m"`
	Windgusts10m             *float64 `parquet:"windgusts_10m"`
	SoilTemperature0To7      *float64 `parquet:"soil_temperature_0_to_7cm"`
	SoilTemperature7To28     *float64 `parquet:"soil_temperature_7_to_28cm"`
	SoilTemperature28To100   *float64 `parquet:"soil_temperature_28_to_100cm"`
	SoilTemperature100To255  *float64 `parquet:"soil_temperature_100_to_255cm"`
	SoilMoisture0To7         *float64 `parquet:"soil_moisture_0_to_7cm"`
	SoilMoisture7To28        *float64 `parquet:"soil_moisture_7_to_28cm"`
	SoilMoisture28To100      *float64 `parquet:"soil_moisture_28_to_100cm"`
	SoilMoisture100To255     *float64 `parquet:"soil_moisture_100_to_255cm"`
	IsDay                    *bool    `parquet:"is_day"`
	ShortwaveRadiation       *float64 `parquet:"shortwave_radiation"`
	DirectRadiation          *float64 `parquet:"direct_radiation"`
	DiffuseRadiation         *float64 `parquet:"diffuse_radiation"`
	DirectNormalIrradiance   *float64 `parquet:"direct_normal_irradiance"`
}

// columnField maps canonical column names to archiveRow field indexes.
var columnField = func() map[string]int {
	rt := reflect.TypeOf(archiveRow{})
	m := make(map[string]int, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		tag := strings.Split(rt.Field(i).Tag.Get("parquet"), ",")[0]
		if tag == "time" || tag == "model" {
			continue
		}
		m[tag] = i
	}
	return m
}()

// WriteParquet persists a tidy table to a columnar file at path, one row
// per (timestamp, model). Columns absent from the table are written as
// nulls.
func WriteParquet(path string, t *TidyTable) error {
	for _, c := range t.columns {
		if _, ok := columnField[c]; !ok {
			return fmt.Errorf("column %q has no parquet field", c)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := parquet.NewGenericWriter[archiveRow](f)
	rows := make([]archiveRow, t.Len())
	for i := range rows {
		rows[i].Time = t.times[i].UnixMilli()
		rows[i].Model = t.models[i]
		rv := reflect.ValueOf(&rows[i]).Elem()
		for _, c := range t.columns {
			v := t.data[c][i]
			if math.IsNaN(v) {
				continue
			}
			setField(rv.Field(columnField[c]), v)
		}
	}
	if _, err := w.Write(rows); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return f.Close()
}

// ReadParquet loads a persisted tidy table and validates it against
// schema.TidyHourly before returning. Every canonical column is present in
// the result; columns the writer never observed are all-NaN.
func ReadParquet(path string) (*TidyTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := parquet.NewGenericReader[archiveRow](f)
	defer r.Close()

	var rows []archiveRow
	buf := make([]archiveRow, 256)
	for {
		n, err := r.Read(buf)
		rows = append(rows, buf[:n]...)
		// A zero-row read without an error would otherwise loop forever.
		if err != nil || n == 0 {
			break
		}
	}

	columns := schema.CanonicalVariables()
	sort.Strings(columns)
	t := &TidyTable{
		times:   make([]time.Time, len(rows)),
		models:  make([]string, len(rows)),
		columns: columns,
		data:    make(map[string][]float64, len(columns)),
	}
	for _, c := range columns {
		t.data[c] = nanColumn(len(rows))
	}
	for i, row := range rows {
		t.times[i] = time.UnixMilli(row.Time).UTC()
		t.models[i] = row.Model
		rv := reflect.ValueOf(row)
		for _, c := range columns {
			if v, ok := getField(rv.Field(columnField[c])); ok {
				t.data[c][i] = v
			}
		}
	}
	t.sortRows()

	if err := schema.TidyHourly.Validate(t); err != nil {
		return nil, err
	}
	return t, nil
}

func setField(fv reflect.Value, v float64) {
	switch fv.Type().Elem().Kind() {
	case reflect.Float64:
		fv.Set(reflect.ValueOf(&v))
	case reflect.Int32:
		iv := int32(v)
		fv.Set(reflect.ValueOf(&iv))
	case reflect.Bool:
		bv := v != 0
		fv.Set(reflect.ValueOf(&bv))
	}
}

func getField(fv reflect.Value) (float64, bool) {
	if fv.IsNil() {
		return 0, false
	}
	switch fv.Type().Elem().Kind() {
	case reflect.Float64:
		return fv.Elem().Float(), true
	case reflect.Int32:
		return float64(fv.Elem().Int()), true
	case reflect.Bool:
		if fv.Elem().Bool() {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}
