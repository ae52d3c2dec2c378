package config

const (
	defaultDataDir         = "~/.local/share/cardsort"
	defaultLogDir          = "~/.local/share/cardsort/logs"
	defaultAPIBind         = "127.0.0.1:7680"
	defaultOCRLanguage     = "eng"
	defaultOCRDPI          = 300
	defaultOCRPageSegMode  = "7"
	defaultDictionaryPath  = "~/.local/share/cardsort/card_names.txt"
	defaultMaxEditDistance = 2
	defaultScryfallBaseURL = "https://api.scryfall.com"
	defaultScryfallAgent   = "cardsort/dev"
	defaultScryfallTimeout = 10
	defaultGPIODriver      = "simulated"
	defaultMotorPin        = 23
	defaultSensorPin       = 24
	defaultFlapLeftAPin    = 14
	defaultFlapLeftBPin    = 15
	defaultMainSortPin     = 18
	defaultSensorTimeout   = 10
	defaultSensorPollMS    = 10
	defaultFlapPulseMS     = 25
	defaultMainFlapLeadMS  = 10
	defaultMotorSettleMS   = 600
	defaultCameraDevice    = "/dev/video0"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"

	// Crop band of the name line on a standard card photo, measured on the
	// reference camera mount.
	defaultCropLeft   = 0.32
	defaultCropTop    = 0.23
	defaultCropRight  = 0.60
	defaultCropBottom = 0.255
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		OCR: OCR{
			Language:    defaultOCRLanguage,
			DPI:         defaultOCRDPI,
			PageSegMode: defaultOCRPageSegMode,
			Crop: Crop{
				Left:   defaultCropLeft,
				Top:    defaultCropTop,
				Right:  defaultCropRight,
				Bottom: defaultCropBottom,
			},
		},
		Dictionary: Dictionary{
			Path:            defaultDictionaryPath,
			MaxEditDistance: defaultMaxEditDistance,
		},
		Scryfall: Scryfall{
			BaseURL:        defaultScryfallBaseURL,
			UserAgent:      defaultScryfallAgent,
			RequestTimeout: defaultScryfallTimeout,
		},
		GPIO: GPIO{
			Driver:      defaultGPIODriver,
			MotorPin:    defaultMotorPin,
			SensorPin:   defaultSensorPin,
			FlapLeftA:   defaultFlapLeftAPin,
			FlapLeftB:   defaultFlapLeftBPin,
			MainSortPin: defaultMainSortPin,
		},
		Sorter: Sorter{
			SensorTimeout:  defaultSensorTimeout,
			SensorPollMS:   defaultSensorPollMS,
			FlapPulseMS:    defaultFlapPulseMS,
			MainFlapLeadMS: defaultMainFlapLeadMS,
			MotorSettleMS:  defaultMotorSettleMS,
		},
		Camera: Camera{
			Enabled: false,
			Device:  defaultCameraDevice,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
