package clientmqtt

type MQTTConf struct {
	ClientID   string // ClientID - уникальное имя клиента для брокеров.
	Schema     string // Schema - тип подключения.
	Host       string // Host - адрес MQTT сервера.
	Port       string // Port - порт MQTT сервера.
	User       string // User - логин для подключения к MQTT серверу.
	Password   string // Password - пароль для подключения к MQTT серверу.
	Qos        byte   // Qos - quality of service for subscribe and publish.
	Topic      string // Topic - commands are read from here.
	StateTopic string // StateTopic - retained state after each transfer, empty to disable.
}

// State is published on the state topic after every transfer.
type State struct {
	Channel   string `json:"channel"`
	Magnitude int64  `json:"magnitude"`
	Value     uint16 `json:"value"`
	MSB       byte   `json:"msb"`
	LSB       byte   `json:"lsb"`
}
