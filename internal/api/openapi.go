package api

import (
	"net/http"
	"strings"
	"sync"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type object = map[string]interface{}

// route 文档中的一个接口
type route struct {
	method  string
	path    string
	tag     string
	summary string
	query   []string // 查询参数
	body    string   // 请求体 schema 名
	status  string   // 成功状态码
	result  string   // 成功响应 schema 名，"[]X" 表示数组
}

var routes = []route{
	{"get", "/api/examples", "examples", "List examples", []string{"name"}, "", "200", "[]Example"},
	{"post", "/api/examples", "examples", "Create example", nil, "ExampleInput", "201", "Example"},
	{"get", "/api/examples/{id}", "examples", "Get example", nil, "", "200", "Example"},
	{"put", "/api/examples/{id}", "examples", "Update example", nil, "ExampleInput", "200", "Example"},
	{"delete", "/api/examples/{id}", "examples", "Delete example", nil, "", "204", ""},

	{"get", "/api/events", "events", "List events", []string{"status"}, "", "200", "[]Event"},
	{"post", "/api/events", "events", "Create event", nil, "CreateEventRequest", "201", "Event"},
	{"get", "/api/events/{id}", "events", "Get event", nil, "", "200", "Event"},
	{"patch", "/api/events/{id}", "events", "Update event", nil, "UpdateEventRequest", "200", "Event"},
	{"delete", "/api/events/{id}", "events", "Delete event", nil, "", "204", ""},
	{"get", "/api/events/{id}/rankings", "events", "Event rankings", []string{"limit"}, "", "200", "[]RankingEntry"},
	{"post", "/api/events/{id}/start", "events", "Start event", nil, "", "200", "Event"},
	{"post", "/api/events/{id}/complete", "events", "Complete event", nil, "", "200", "Event"},
	{"get", "/api/events/{id}/stats", "events", "Event stats", nil, "", "200", "EventStats"},

	{"post", "/api/participants", "participants", "Join event", nil, "JoinRequest", "201", "Participant"},
	{"get", "/api/participants/{id}", "participants", "Get participant", nil, "", "200", "Participant"},
	{"get", "/api/participants/{id}/stats", "participants", "Participant stats", nil, "", "200", "ParticipantStats"},
	{"get", "/api/participants/{id}/badges", "participants", "Participant badges", nil, "", "200", "[]ParticipantBadge"},
	{"post", "/api/participants/{id}/reset", "participants", "Reset participant progress", nil, "", "200", "Participant"},

	{"get", "/api/questions", "questions", "List questions", []string{"event_id"}, "", "200", "[]Question"},
	{"post", "/api/questions", "questions", "Create question", nil, "CreateQuestionRequest", "201", "Question"},
	{"post", "/api/questions/generate", "questions", "Generate question", nil, "GenerateQuestionRequest", "200", "GeneratedQuestion"},
	{"get", "/api/questions/{id}", "questions", "Get question", nil, "", "200", "Question"},
	{"delete", "/api/questions/{id}", "questions", "Delete question", nil, "", "204", ""},

	{"get", "/api/responses", "responses", "List responses", []string{"question_id", "participant_id"}, "", "200", "[]Response"},
	{"post", "/api/responses", "responses", "Submit response", nil, "CreateResponseRequest", "201", "Response"},
	{"get", "/api/responses/top/quality", "responses", "Top quality responses", []string{"event_id", "limit"}, "", "200", "[]Response"},
	{"get", "/api/responses/{id}", "responses", "Get response", nil, "", "200", "Response"},

	{"get", "/api/messages", "messages", "List messages", []string{"event_id", "limit"}, "", "200", "[]Message"},
	{"post", "/api/messages", "messages", "Create message", nil, "CreateMessageRequest", "201", "Message"},
	{"delete", "/api/messages/{id}", "messages", "Delete message", nil, "", "204", ""},

	{"get", "/api/health", "health", "Service health", nil, "", "200", "Health"},
	{"get", "/api/health/db", "health", "Database health", nil, "", "200", "DatabaseHealth"},
}

func prop(kind string) object { return object{"type": kind} }

func nullable(kind string) object { return object{"type": kind, "nullable": true} }

func ref(name string) object { return object{"$ref": "#/components/schemas/" + name} }

func arrayOf(item object) object { return object{"type": "array", "items": item} }

func schema(required []string, props object) object {
	s := object{"type": "object", "properties": props}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

var dateTime = object{"type": "string", "format": "date-time"}

func schemas() object {
	participant := schema(nil, object{
		"id": prop("integer"), "event_id": prop("integer"), "user_id": prop("string"), "name": prop("string"),
		"email": nullable("string"), "avatar_url": nullable("string"), "points": prop("integer"),
		"streak": prop("integer"), "quality_score": prop("number"), "sentiment_score": prop("number"),
		"responses_count": prop("integer"), "rank_position": nullable("integer"),
		"joined_at": dateTime, "last_activity_at": dateTime,
	})
	return object{
		"Example": schema([]string{"name", "title"}, object{
			"id": prop("integer"), "name": prop("string"), "title": prop("string"),
			"entryDate": dateTime, "description": nullable("string"), "isActive": prop("boolean"),
		}),
		"ExampleInput": schema(nil, object{
			"name": prop("string"), "title": prop("string"), "entryDate": dateTime,
			"description": nullable("string"), "isActive": prop("boolean"),
		}),
		"Event": schema([]string{"title", "event_date"}, object{
			"id": prop("integer"), "title": prop("string"), "description": nullable("string"),
			"event_date": dateTime, "status": object{"type": "string", "enum": []string{"upcoming", "live", "completed"}},
			"max_participants": nullable("integer"), "speaker_name": nullable("string"),
			"speaker_avatar": nullable("string"), "event_type": prop("string"),
			"google_calendar_id": nullable("string"), "participant_count": prop("integer"),
			"created_at": dateTime, "updated_at": dateTime,
		}),
		"CreateEventRequest": schema([]string{"title", "event_date"}, object{
			"title": prop("string"), "description": prop("string"), "event_date": dateTime,
			"max_participants": prop("integer"), "speaker_name": prop("string"),
			"speaker_avatar": prop("string"), "event_type": prop("string"),
		}),
		"UpdateEventRequest": schema(nil, object{
			"title": prop("string"), "description": prop("string"), "event_date": dateTime,
			"status": prop("string"), "max_participants": prop("integer"),
			"speaker_name": prop("string"), "speaker_avatar": prop("string"), "event_type": prop("string"),
		}),
		"EventStats": schema(nil, object{
			"event_id": prop("integer"), "total_participants": prop("integer"), "total_responses": prop("integer"),
			"average_quality_score": prop("number"), "average_sentiment_score": prop("number"),
			"completion_rate": prop("number"), "top_participants": arrayOf(ref("RankingEntry")),
		}),
		"RankingEntry": schema(nil, object{
			"position": prop("integer"), "participant": ref("Participant"), "badges": arrayOf(prop("string")),
		}),
		"Participant": participant,
		"JoinRequest": schema([]string{"event_id", "user_id", "name"}, object{
			"event_id": prop("integer"), "user_id": prop("string"), "name": prop("string"),
			"email": prop("string"), "avatar_url": prop("string"),
		}),
		"ParticipantStats": schema(nil, object{
			"participant_id": prop("integer"), "user_id": prop("string"), "total_points": prop("integer"),
			"total_events": prop("integer"), "total_responses": prop("integer"),
			"average_quality": prop("number"), "average_sentiment": prop("number"),
			"badges_count": prop("integer"), "best_rank": nullable("integer"),
		}),
		"Badge": schema(nil, object{
			"id": prop("integer"), "name": prop("string"), "display_name": prop("string"),
			"description": prop("string"), "icon": prop("string"), "criteria_type": prop("string"),
			"criteria_value": prop("integer"), "rarity": prop("string"),
		}),
		"ParticipantBadge": schema(nil, object{
			"id": prop("integer"), "participant_id": prop("integer"), "badge_id": prop("integer"),
			"earned_at": dateTime, "badge": ref("Badge"),
		}),
		"Question": schema(nil, object{
			"id": prop("integer"), "event_id": prop("integer"), "text": prop("string"),
			"question_type": object{"type": "string", "enum": []string{"quick_options", "rating", "free_text"}},
			"order": prop("integer"), "options": arrayOf(prop("string")), "is_ai_generated": prop("boolean"),
			"ai_context": nullable("string"), "asked_at": dateTime, "created_at": dateTime,
		}),
		"CreateQuestionRequest": schema([]string{"event_id", "text"}, object{
			"event_id": prop("integer"), "text": prop("string"), "question_type": prop("string"),
			"order": prop("integer"), "options": arrayOf(prop("string")),
			"is_ai_generated": prop("boolean"), "ai_context": prop("string"),
		}),
		"GenerateQuestionRequest": schema(nil, object{
			"event_id": prop("integer"), "context": prop("string"),
			"previous_questions": arrayOf(prop("string")), "question_type": prop("string"),
		}),
		"GeneratedQuestion": schema(nil, object{
			"text": prop("string"), "question_type": prop("string"),
			"options": arrayOf(prop("string")), "reasoning": prop("string"),
		}),
		"Response": schema(nil, object{
			"id": prop("integer"), "question_id": prop("integer"), "participant_id": prop("integer"),
			"text": prop("string"), "rating": nullable("integer"),
			"sentiment": object{"type": "string", "enum": []string{"positive", "negative", "neutral"}, "nullable": true},
			"sentiment_score": nullable("number"), "quality_score": nullable("number"),
			"ai_summary": nullable("string"), "response_time_seconds": nullable("integer"),
			"is_quick_option": prop("boolean"), "points_awarded": prop("integer"), "created_at": dateTime,
		}),
		"CreateResponseRequest": schema([]string{"question_id", "participant_id"}, object{
			"question_id": prop("integer"), "participant_id": prop("integer"), "text": prop("string"),
			"rating": object{"type": "integer", "minimum": 1, "maximum": 5},
			"is_quick_option": prop("boolean"), "response_time_seconds": prop("integer"),
		}),
		"Message": schema(nil, object{
			"id": prop("integer"), "event_id": prop("integer"), "participant_id": nullable("integer"),
			"text": prop("string"), "message_type": object{"type": "string", "enum": []string{"bot", "user"}},
			"created_at": dateTime, "participant_name": nullable("string"), "participant_avatar": nullable("string"),
		}),
		"CreateMessageRequest": schema([]string{"event_id", "text"}, object{
			"event_id": prop("integer"), "participant_id": prop("integer"),
			"text": prop("string"), "message_type": prop("string"),
		}),
		"Health": schema(nil, object{"status": prop("string"), "timestamp": dateTime}),
		"DatabaseHealth": schema(nil, object{
			"connected": prop("boolean"), "message": prop("string"), "error": prop("string"), "timestamp": dateTime,
		}),
		"NotFound": schema([]string{"message"}, object{"message": prop("string")}),
		"Error": schema([]string{"message"}, object{"message": prop("string"), "error": prop("string")}),
	}
}

func jsonContent(s object) object {
	return object{"application/json": object{"schema": s}}
}

func resultSchema(name string) object {
	if strings.HasPrefix(name, "[]") {
		return arrayOf(ref(strings.TrimPrefix(name, "[]")))
	}
	return ref(name)
}

// operationID "List examples" -> "ListExamples"
func operationID(summary string) string {
	var b strings.Builder
	for _, word := range strings.Fields(summary) {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	return b.String()
}

func operation(r route) object {
	op := object{
		"tags":        []string{r.tag},
		"summary":     r.summary,
		"operationId": operationID(r.summary),
	}

	var params []object
	if strings.Contains(r.path, "{id}") {
		params = append(params, object{"name": "id", "in": "path", "required": true, "schema": prop("integer")})
	}
	for _, q := range r.query {
		kind := "integer"
		if q == "name" || q == "status" {
			kind = "string"
		}
		params = append(params, object{"name": q, "in": "query", "required": false, "schema": prop(kind)})
	}
	if len(params) > 0 {
		op["parameters"] = params
	}
	if r.body != "" {
		op["requestBody"] = object{"required": true, "content": jsonContent(ref(r.body))}
	}

	responses := object{}
	if r.result == "" {
		responses[r.status] = object{"description": "No Content"}
	} else {
		responses[r.status] = object{"description": "OK", "content": jsonContent(resultSchema(r.result))}
	}
	if r.body != "" || len(r.query) > 0 || strings.Contains(r.path, "{id}") {
		responses["400"] = object{"description": "Validation error", "content": jsonContent(ref("Error"))}
	}
	if strings.Contains(r.path, "{id}") {
		responses["404"] = object{"description": "Not found", "content": jsonContent(ref("NotFound"))}
	}
	responses["500"] = object{"description": "Internal error", "content": jsonContent(ref("Error"))}
	op["responses"] = responses
	return op
}

// OpenAPIDocument 当前路由表对应的 OpenAPI 3 文档
func OpenAPIDocument() map[string]interface{} {
	paths := object{}
	for _, r := range routes {
		item, ok := paths[r.path].(object)
		if !ok {
			item = object{}
			paths[r.path] = item
		}
		item[r.method] = operation(r)
	}
	return object{
		"openapi": "3.0.3",
		"info": object{
			"title":       "Event Hub API",
			"version":     "1.0.0",
			"description": "Event participation backend: events, questions, responses, scoring, rankings and badges.",
		},
		"paths":      paths,
		"components": object{"schemas": schemas()},
	}
}

// OpenAPIHandler 以 JSON/YAML 两种格式提供同一份文档
type OpenAPIHandler struct {
	logger *logrus.Logger

	once    sync.Once
	doc     map[string]interface{}
	yamlDoc []byte
	yamlErr error
}

func NewOpenAPIHandler(logger *logrus.Logger) *OpenAPIHandler {
	return &OpenAPIHandler{logger: logger}
}

func (h *OpenAPIHandler) build() {
	h.once.Do(func() {
		h.doc = OpenAPIDocument()
		h.yamlDoc, h.yamlErr = yaml.Marshal(h.doc)
	})
}

// JSON GET /api/openapi.json
func (h *OpenAPIHandler) JSON(c *gin.Context) {
	h.build()
	c.JSON(http.StatusOK, h.doc)
}

// YAML GET /api/openapi.yaml
func (h *OpenAPIHandler) YAML(c *gin.Context) {
	h.build()
	if h.yamlErr != nil {
		respondError(c, h.logger, "OpenAPIYAML", h.yamlErr)
		return
	}
	c.Data(http.StatusOK, "application/yaml; charset=utf-8", h.yamlDoc)
}
