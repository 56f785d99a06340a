package config

type AppConfig struct {
	Server  ServerConfig
	Log     LogConfig
	Jackpot JackpotConfig
}

func LoadApp() (AppConfig, error) {
	logCfg, err := LoadLog()
	if err != nil {
		return AppConfig{}, err
	}
	serverCfg, err := LoadServer()
	if err != nil {
		return AppConfig{}, err
	}
	jackpotCfg, err := LoadJackpot()
	if err != nil {
		return AppConfig{}, err
	}
	return AppConfig{
		Server:  serverCfg,
		Log:     logCfg,
		Jackpot: jackpotCfg,
	}, nil
}
