package core

const (
	Gravity = 9.81

	// Air density at sea level and at 3 km, kg/m^3.
	RhoSeaLevel = 1.225
	Rho3km      = 0.9091

	ParasiticDrag = 0.02
	Oswald        = 0.8
	EtaProp       = 0.7
	EtaMotor      = 0.9

	// StallBuffer scales the stall speed into the lowest usable design speed.
	StallBuffer = 1.5

	MphToMs = 0.44704
)
