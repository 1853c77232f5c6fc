package avr

// Arduino Uno, Nano and other ATmega328P boards: pins 0-7 on port D,
// 8-13 on port B, 14-19 (A0-A5) on port C.
func unoPin(pin int) (byte, uint, bool) {
	switch {
	case pin >= 0 && pin <= 7:
		return 'D', uint(pin), true
	case pin >= 8 && pin <= 13:
		return 'B', uint(pin - 8), true
	case pin >= 14 && pin <= 19:
		return 'C', uint(pin - 14), true
	}
	return 0, 0, false
}

// Arduino Mega 1280/2560: pins 0-69, A0-A15 are 54-69.
func megaPin(pin int) (byte, uint, bool) {
	if pin < 0 || pin > 69 {
		return 0, 0, false
	}
	return megaPort(pin), megaBit(pin), true
}

func megaPort(pin int) byte {
	switch {
	case pin >= 22 && pin <= 29:
		return 'A'
	case (pin >= 10 && pin <= 13) || (pin >= 50 && pin <= 53):
		return 'B'
	case pin >= 30 && pin <= 37:
		return 'C'
	case (pin >= 18 && pin <= 21) || pin == 38:
		return 'D'
	case (pin >= 0 && pin <= 3) || pin == 5:
		return 'E'
	case pin >= 54 && pin <= 61:
		return 'F'
	case (pin >= 39 && pin <= 41) || pin == 4:
		return 'G'
	case (pin >= 6 && pin <= 9) || pin == 16 || pin == 17:
		return 'H'
	case pin == 14 || pin == 15:
		return 'J'
	case pin >= 62 && pin <= 69:
		return 'K'
	default:
		return 'L' // 42-49
	}
}

func megaBit(pin int) uint {
	switch {
	case pin >= 7 && pin <= 9:
		return uint(pin - 3)
	case pin >= 10 && pin <= 13:
		return uint(pin - 6)
	case pin >= 22 && pin <= 29:
		return uint(pin - 22)
	case pin >= 30 && pin <= 37:
		return uint(37 - pin)
	case pin >= 39 && pin <= 41:
		return uint(41 - pin)
	case pin >= 42 && pin <= 49:
		return uint(49 - pin)
	case pin >= 50 && pin <= 53:
		return uint(53 - pin)
	case pin >= 54 && pin <= 61:
		return uint(pin - 54)
	case pin >= 62 && pin <= 69:
		return uint(pin - 62)
	}
	switch pin {
	case 0, 15, 17, 21:
		return 0
	case 1, 14, 16, 20:
		return 1
	case 19:
		return 2
	case 5, 6, 18:
		return 3
	case 2:
		return 4
	case 3, 4:
		return 5
	}
	return 7 // 38: PD7
}
