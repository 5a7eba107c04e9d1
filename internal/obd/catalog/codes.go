package catalog

// Code describes one telemetry code from the uploader's PID catalog.
type Code struct {
	ShortName string
	FullName  string
	Unit      string
}

// Well-known short keys used outside the catalog.
const (
	KeyGPSLat      = "gpslat"
	KeyGPSLon      = "gpslon"
	KeyGPSAltitude = "gpsalt"
	KeyGPSAccuracy = "gpsaccuracy"
	KeyGPSSpeed    = "gps_spd"
	KeySpeedGPS    = "speed_gps"

	// EntityGPS marks the location-tracker slot in the tracked set.
	EntityGPS = "gps"
)

// Catalog codes mirrored from the uploader protocol: standard mode-01
// PIDs plus the ff-prefixed extended codes the app emits. Keys are
// lowercase; request keys are case-folded before lookup.
var codes = map[string]Code{
	// Standard mode 01 PIDs.
	"04": {ShortName: "engine_load", FullName: "Engine Load", Unit: "%"},
	"05": {ShortName: "coolant_temp", FullName: "Engine Coolant Temperature", Unit: "°C"},
	"06": {ShortName: "fuel_trim_b1_short", FullName: "Fuel Trim Bank 1 Short Term", Unit: "%"},
	"07": {ShortName: "fuel_trim_b1_long", FullName: "Fuel Trim Bank 1 Long Term", Unit: "%"},
	"08": {ShortName: "fuel_trim_b2_short", FullName: "Fuel Trim Bank 2 Short Term", Unit: "%"},
	"09": {ShortName: "fuel_trim_b2_long", FullName: "Fuel Trim Bank 2 Long Term", Unit: "%"},
	"0a": {ShortName: "fuel_pressure", FullName: "Fuel Pressure", Unit: "kPa"},
	"0b": {ShortName: "intake_manifold_pressure", FullName: "Intake Manifold Pressure", Unit: "kPa"},
	"0c": {ShortName: "engine_rpm", FullName: "Engine RPM", Unit: "rpm"},
	"0d": {ShortName: "speed_obd", FullName: "Speed (OBD)", Unit: "km/h"},
	"0e": {ShortName: "timing_advance", FullName: "Timing Advance", Unit: "°"},
	"0f": {ShortName: "intake_air_temp", FullName: "Intake Air Temperature", Unit: "°C"},
	"10": {ShortName: "mass_air_flow_rate", FullName: "Mass Air Flow Rate", Unit: "g/s"},
	"11": {ShortName: "throttle_position", FullName: "Throttle Position (Manifold)", Unit: "%"},
	"1f": {ShortName: "run_time_since_start", FullName: "Run Time Since Engine Start", Unit: "s"},
	"21": {ShortName: "dist_mil_on", FullName: "Distance Travelled With MIL On", Unit: "km"},
	"23": {ShortName: "fuel_rail_pressure", FullName: "Fuel Rail Pressure", Unit: "kPa"},
	"2c": {ShortName: "egr_commanded", FullName: "EGR Commanded", Unit: "%"},
	"2f": {ShortName: "fuel_level", FullName: "Fuel Level (From Engine ECU)", Unit: "%"},
	"31": {ShortName: "dist_since_codes_cleared", FullName: "Distance Travelled Since Codes Cleared", Unit: "km"},
	"33": {ShortName: "barometric_pressure_vehicle", FullName: "Barometric Pressure (From Vehicle)", Unit: "kPa"},
	"3c": {ShortName: "cat_temp_b1s1", FullName: "Catalyst Temperature (Bank 1 Sensor 1)", Unit: "°C"},
	"3d": {ShortName: "cat_temp_b2s1", FullName: "Catalyst Temperature (Bank 2 Sensor 1)", Unit: "°C"},
	"42": {ShortName: "control_module_voltage", FullName: "Voltage (Control Module)", Unit: "V"},
	"43": {ShortName: "engine_load_absolute", FullName: "Engine Load (Absolute)", Unit: "%"},
	"44": {ShortName: "commanded_equivalence_ratio", FullName: "Commanded Equivalence Ratio (Lambda)", Unit: ""},
	"45": {ShortName: "throttle_position_relative", FullName: "Relative Throttle Position", Unit: "%"},
	"46": {ShortName: "ambient_air_temp", FullName: "Ambient Air Temperature", Unit: "°C"},
	"49": {ShortName: "accelerator_pedal_d", FullName: "Accelerator Pedal Position D", Unit: "%"},
	"4a": {ShortName: "accelerator_pedal_e", FullName: "Accelerator Pedal Position E", Unit: "%"},
	"52": {ShortName: "ethanol_fuel_pct", FullName: "Ethanol Fuel %", Unit: "%"},
	"5a": {ShortName: "accelerator_pedal_relative", FullName: "Relative Accelerator Pedal Position", Unit: "%"},
	"5c": {ShortName: "engine_oil_temperature", FullName: "Engine Oil Temperature", Unit: "°C"},
	"5e": {ShortName: "fuel_rate_ecu", FullName: "Engine Fuel Rate", Unit: "L/hr"},
	"61": {ShortName: "demanded_torque", FullName: "Driver's Demanded Engine Torque", Unit: "%"},
	"62": {ShortName: "actual_torque", FullName: "Actual Engine Torque", Unit: "%"},
	"63": {ShortName: "reference_torque", FullName: "Engine Reference Torque", Unit: "N·m"},
	"66": {ShortName: "maf_sensor_a", FullName: "Mass Air Flow Sensor A", Unit: "g/s"},
	"67": {ShortName: "coolant_temp_sensor_1", FullName: "Engine Coolant Temperature (Sensor 1)", Unit: "°C"},
	"6b": {ShortName: "egr_temp", FullName: "Exhaust Gas Recirculation Temperature", Unit: "°C"},
	"70": {ShortName: "boost_pressure_commanded_a", FullName: "Boost Pressure Commanded A", Unit: "kPa"},
	"78": {ShortName: "egt_b1_s1", FullName: "Exhaust Gas Temperature (Bank 1 Sensor 1)", Unit: "°C"},
	"7c": {ShortName: "dpf_b1_inlet_temp", FullName: "DPF Bank 1 Inlet Temperature", Unit: "°C"},

	// Extended codes emitted by the app.
	"ff1001": {ShortName: KeyGPSSpeed, FullName: "Vehicle Speed (GPS)", Unit: "km/h"},
	"ff1005": {ShortName: KeyGPSLon, FullName: "GPS Longitude", Unit: "°"},
	"ff1006": {ShortName: KeyGPSLat, FullName: "GPS Latitude", Unit: "°"},
	"ff1007": {ShortName: "gps_bearing", FullName: "GPS Bearing", Unit: "°"},
	"ff1010": {ShortName: KeyGPSAltitude, FullName: "GPS Altitude", Unit: "m"},
	"ff1201": {ShortName: "mpg_instant", FullName: "Fuel Economy (Instant)", Unit: "L/100km"},
	"ff1203": {ShortName: "trip_distance", FullName: "Trip Distance", Unit: "km"},
	"ff1204": {ShortName: "trip_distance_stored", FullName: "Trip Distance (Stored In Vehicle Profile)", Unit: "km"},
	"ff1205": {ShortName: "mpg_trip_avg", FullName: "Fuel Economy (Trip Average)", Unit: "L/100km"},
	"ff1207": {ShortName: "mpg_long_term_avg", FullName: "Fuel Economy (Long Term Average)", Unit: "L/100km"},
	"ff120c": {ShortName: "trip_fuel_used", FullName: "Trip Fuel Used", Unit: "L"},
	"ff1214": {ShortName: "o2_o2l1_wide_voltage", FullName: "Oxygen Sensor 1 Wide Range Voltage", Unit: "V"},
	"ff1225": {ShortName: "torque", FullName: "Engine Torque", Unit: "N·m"},
	"ff1226": {ShortName: "horsepower", FullName: "Engine Power", Unit: "hp"},
	"ff1238": {ShortName: "voltage_obd_adapter", FullName: "Voltage (OBD Adapter)", Unit: "V"},
	"ff1239": {ShortName: KeyGPSAccuracy, FullName: "GPS Accuracy", Unit: "m"},
	"ff123a": {ShortName: "gps_satellites", FullName: "GPS Satellites", Unit: ""},
	"ff1249": {ShortName: "air_fuel_ratio_measured", FullName: "Air Fuel Ratio (Measured)", Unit: ":1"},
	"ff124d": {ShortName: "air_fuel_ratio_commanded", FullName: "Air Fuel Ratio (Commanded)", Unit: ":1"},
	"ff125a": {ShortName: "fuel_flow_rate", FullName: "Fuel Flow Rate (Minute)", Unit: "cc/min"},
	"ff125c": {ShortName: "fuel_cost_trip", FullName: "Fuel Cost (Trip)", Unit: ""},
	"ff125d": {ShortName: "fuel_flow_rate_hour", FullName: "Fuel Flow Rate (Hour)", Unit: "L/hr"},
	"ff1263": {ShortName: "trip_speed_avg", FullName: "Average Trip Speed (Whilst Moving)", Unit: "km/h"},
	"ff1266": {ShortName: "trip_time_since_start", FullName: "Trip Time (Since Journey Start)", Unit: "s"},
	"ff1267": {ShortName: "trip_time_stationary", FullName: "Trip Time (Whilst Stationary)", Unit: "s"},
	"ff1268": {ShortName: "trip_time_moving", FullName: "Trip Time (Whilst Moving)", Unit: "s"},
	"ff1269": {ShortName: "co2_gkm_instant", FullName: "CO2 (Instant)", Unit: "g/km"},
	"ff126a": {ShortName: "co2_gkm_avg", FullName: "CO2 (Trip Average)", Unit: "g/km"},
	"ff1270": {ShortName: "barometer_device", FullName: "Barometer (On Android Device)", Unit: "kPa"},
	"ff1271": {ShortName: "fuel_used_trip", FullName: "Fuel Used (Trip)", Unit: "L"},
	"ff1272": {ShortName: "accel_x", FullName: "Acceleration Sensor (X Axis)", Unit: "g"},
	"ff1273": {ShortName: "accel_y", FullName: "Acceleration Sensor (Y Axis)", Unit: "g"},
	"ff1274": {ShortName: "accel_z", FullName: "Acceleration Sensor (Z Axis)", Unit: "g"},
	"ff1275": {ShortName: "accel_total", FullName: "Acceleration Sensor (Total)", Unit: "g"},
	"ff1276": {ShortName: "distance_to_empty", FullName: "Distance To Empty (Estimated)", Unit: "km"},
	"ff1805": {ShortName: "transmission_temp_method_2", FullName: "Transmission Temperature (Method 2)", Unit: "°C"},
	"ff5201": {ShortName: "mpg_trip", FullName: "Miles Per Gallon (Trip)", Unit: "L/100km"},
	"ff5202": {ShortName: "kpl_instant", FullName: "Kilometers Per Litre (Instant)", Unit: "kpl"},
	"ffe001": {ShortName: "obd_adapter_status", FullName: "OBD Adapter Status", Unit: ""},
	"ffe002": {ShortName: "engine_state", FullName: "Engine State", Unit: ""},
}

// Lookup returns the catalog entry for a lowercase code.
func Lookup(code string) (Code, bool) {
	c, ok := codes[code]
	return c, ok
}

// DefaultUnit returns the catalog unit for a short key, or "" when the
// key is unknown. Used to synthesize metadata for rehydrated entities
// before their first frame arrives.
func DefaultUnit(key string) string {
	u, ok := defaultUnitByKey[key]
	if !ok {
		return ""
	}
	return u
}

// DefaultFullName returns the canonical English label for a short key.
func DefaultFullName(key string) string {
	return fullNameByKey[key]
}

var (
	defaultUnitByKey = make(map[string]string, len(codes))
	fullNameByKey    = make(map[string]string, len(codes))
)

func init() {
	for _, c := range codes {
		if c.ShortName == "" {
			continue
		}
		defaultUnitByKey[c.ShortName] = c.Unit
		fullNameByKey[c.ShortName] = c.FullName
	}
}
