package mqtt

import "fmt"

// topicPrefix is the root of every topic this service publishes.
const topicPrefix = "obdcore"

// Topics builds the topic strings used by the publisher. A zero value is
// ready to use.
//
// Layout:
//
//	obdcore/system/status              service online/offline (retained)
//	obdcore/vehicle/<car_id>/state     full vehicle snapshot (retained)
//	obdcore/vehicle/<car_id>/event     entity discovery events
type Topics struct{}

// SystemStatus returns the service status topic.
func (Topics) SystemStatus() string {
	return topicPrefix + "/system/status"
}

// VehicleState returns the retained state topic for one vehicle.
func (Topics) VehicleState(carID string) string {
	return fmt.Sprintf("%s/vehicle/%s/state", topicPrefix, carID)
}

// VehicleEvent returns the event topic for one vehicle.
func (Topics) VehicleEvent(carID string) string {
	return fmt.Sprintf("%s/vehicle/%s/event", topicPrefix, carID)
}
