package catalog

// French display labels keyed by short name. Codes without an entry fall
// back to the English label.
var frByKey = map[string]string{
	"engine_load":                 "Charge moteur",
	"coolant_temp":                "Température du liquide de refroidissement",
	"fuel_pressure":               "Pression de carburant",
	"intake_manifold_pressure":    "Pression du collecteur d'admission",
	"engine_rpm":                  "Régime moteur",
	"speed_obd":                   "Vitesse (OBD)",
	"timing_advance":              "Avance à l'allumage",
	"intake_air_temp":             "Température de l'air d'admission",
	"mass_air_flow_rate":          "Débit massique d'air",
	"throttle_position":           "Position du papillon",
	"run_time_since_start":        "Temps écoulé depuis le démarrage",
	"dist_mil_on":                 "Distance parcourue voyant moteur allumé",
	"fuel_rail_pressure":          "Pression de la rampe de carburant",
	"fuel_level":                  "Niveau de carburant",
	"dist_since_codes_cleared":    "Distance depuis effacement des codes",
	"barometric_pressure_vehicle": "Pression barométrique (véhicule)",
	"cat_temp_b1s1":               "Température catalyseur (banc 1 capteur 1)",
	"cat_temp_b2s1":               "Température catalyseur (banc 2 capteur 1)",
	"control_module_voltage":      "Tension (module de commande)",
	"ambient_air_temp":            "Température de l'air ambiant",
	"engine_oil_temperature":      "Température de l'huile moteur",
	"fuel_rate_ecu":               "Débit de carburant (ECU)",
	"reference_torque":            "Couple moteur de référence",
	"torque":                      "Couple moteur",
	"horsepower":                  "Puissance moteur",
	"voltage_obd_adapter":         "Tension (adaptateur OBD)",
	"gps_spd":                     "Vitesse du véhicule (GPS)",
	"speed_gps":                   "Vitesse du véhicule (GPS)",
	"gpslat":                      "Latitude GPS",
	"gpslon":                      "Longitude GPS",
	"gpsalt":                      "Altitude GPS",
	"gpsaccuracy":                 "Précision GPS",
	"gps_bearing":                 "Cap GPS",
	"gps_satellites":              "Satellites GPS",
	"mpg_instant":                 "Consommation (instantanée)",
	"mpg_trip_avg":                "Consommation (moyenne du trajet)",
	"mpg_long_term_avg":           "Consommation (moyenne long terme)",
	"trip_distance":               "Distance du trajet",
	"trip_fuel_used":              "Carburant utilisé (trajet)",
	"trip_speed_avg":              "Vitesse moyenne du trajet (en mouvement)",
	"trip_time_since_start":       "Temps de trajet (depuis le départ)",
	"trip_time_stationary":        "Temps de trajet (à l'arrêt)",
	"trip_time_moving":            "Temps de trajet (en mouvement)",
	"co2_gkm_instant":             "CO2 (instantané)",
	"co2_gkm_avg":                 "CO2 (moyenne du trajet)",
	"distance_to_empty":           "Autonomie estimée",
	"obd_adapter_status":          "Statut de l'adaptateur OBD",
	"engine_state":                "État du moteur",
}
