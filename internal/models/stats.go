package models

// SystemStats — счётчики для админской панели.
type SystemStats struct {
	Users     int `json:"users"`
	Shops     int `json:"shops"`
	Products  int `json:"products"`
	Producers int `json:"producers"`
}
