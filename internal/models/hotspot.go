package models

// Cluster - группа инцидентов вокруг центра (не хранится, строится на каждый запрос)
type Cluster struct {
	Center           Location
	Members          []*Incident
	DominantType     string
	DominantSeverity Severity
	Score            float64
}

// Hotspot - проекция кластера для ответа
type Hotspot struct {
	Location  Location `json:"location"`
	Incidents int      `json:"incidents"`
	Score     float64  `json:"score"`
	Type      string   `json:"type"`
	Severity  Severity `json:"severity"`
}

// Prediction - вероятный тип инцидента в окрестности точки
type Prediction struct {
	Type              string   `json:"type"`
	Severity          Severity `json:"severity"`
	Probability       int      `json:"probability"`
	ExpectedTimeframe string   `json:"expectedTimeframe"`
}
