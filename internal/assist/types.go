package assist

// Role tags a chat message author
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// ChatMessage is one turn of an assistant conversation
type ChatMessage struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// SymptomReport is the fixed-shape triage result. A nil report means the
// backend answer could not be parsed; callers treat that as "no analysis".
type SymptomReport struct {
	RiskLevel         string `json:"riskLevel"` // Low, Medium, or High
	PossibleCondition string `json:"possibleCondition"`
	Recommendation    string `json:"recommendation"`
	Urgency           string `json:"urgency"`
}

// generateContent wire types (Gemini-style REST)

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMIMEType string  `json:"responseMimeType,omitempty"`
	MaxOutputTokens  int     `json:"maxOutputTokens,omitempty"`
	Temperature      float64 `json:"temperature,omitempty"`
}

type generateRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}
