package validators

import "go.mongodb.org/mongo-driver/bson"

var ScheduleValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"bus_id",
			"departure_time",
			"slot",
			"days",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"bus_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"departure_time": bson.M{
				"bsonType": "string",
				"pattern":  `^([01]\d|2[0-3]):[0-5]\d$`,
			},

			"slot": bson.M{
				"bsonType": "string",
				"enum":     []string{"morning", "evening", "night"},
			},

			"days": bson.M{
				"bsonType": "array",
				"minItems": 1,
				"maxItems": 7,
				"items": bson.M{
					"bsonType": "string",
					"enum": []string{
						"Sunday", "Monday", "Tuesday", "Wednesday",
						"Thursday", "Friday", "Saturday",
					},
				},
			},

			"capacity": bson.M{
				"bsonType": "int",
				"minimum":  0,
				"maximum":  100,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
