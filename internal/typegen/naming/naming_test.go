package naming

import "testing"

func TestOperationName(t *testing.T) {
	tests := []struct {
		method string
		path   string
		want   string
	}{
		{"GET", "/pet/findByStatus", "getPetFindByStatus"},
		{"GET", "/pet/{petId}", "getPetPetId"},
		{"POST", "/pet/{petId}/uploadImage", "postPetPetIdUploadImage"},
		{"DELETE", "/store/order/{orderId}", "deleteStoreOrderOrderId"},
		{"PUT", "/pet", "putPet"},
		{"GET", "/", "getIndex"},
		{"GET", "/2010-04-01/Accounts.json", "get20100401AccountsJson"},
		{"POST", "/2010-04-01/Accounts/{AccountSid}/Calls/{Sid}.json", "post20100401AccountsAccountSidCallsSidJson"},
		{"GET", "/users/:id/profile", "getUsersIdProfile"},
		{"PATCH", "/user_settings/dark-mode", "patchUserSettingsDarkMode"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			got := OperationName(tt.method, tt.path)
			if got != tt.want {
				t.Errorf("OperationName(%q, %q) = %q, want %q", tt.method, tt.path, got, tt.want)
			}
			if again := OperationName(tt.method, tt.path); again != got {
				t.Errorf("OperationName is not deterministic: %q then %q", got, again)
			}
		})
	}
}

func TestDerivedNames(t *testing.T) {
	fn := "getPetFindByStatus"

	checks := map[string]string{
		HookName(fn):         "useGetPetFindByStatus",
		CreateName(fn):       "createGetPetFindByStatus",
		QueryKeyName(fn):     "getGetPetFindByStatusQueryKey",
		QueryOptionsName(fn): "getGetPetFindByStatusQueryOptions",
		MutationKeyName(fn):  "getGetPetFindByStatusMutationKey",
		SWRKeyName(fn):       "getGetPetFindByStatusKey",
	}
	for got, want := range checks {
		if got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
}

func TestTypeName(t *testing.T) {
	tests := map[string]string{
		"Pet":               "Pet",
		"api.v1.Account":    "ApiV1Account",
		"account_details":   "AccountDetails",
		"APIResponse":       "APIResponse",
		"2fa-settings":      "_2faSettings",
		"$$":                "Unnamed",
		"Order-Status Enum": "OrderStatusEnum",
		"Schema":            "SchemaType",
		"record":            "RecordType",
	}

	for in, want := range tests {
		if got := TypeName(in); got != want {
			t.Errorf("TypeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCaseConverter(t *testing.T) {
	c := NewCaseConverter()

	tests := []struct {
		in     string
		target CaseType
		want   string
	}{
		{"getPetFindByStatus", KebabCase, "get-pet-find-by-status"},
		{"getPetFindByStatus", SnakeCase, "get_pet_find_by_status"},
		{"getPetFindByStatus", PascalCase, "GetPetFindByStatus"},
		{"get-pet-find-by-status", CamelCase, "getPetFindByStatus"},
		{"HTTPServer", KebabCase, "http-server"},
		{"user_id", ScreamingSnakeCase, "USER_ID"},
		{"user_id", DotCase, "user.id"},
		{"", CamelCase, ""},
	}

	for _, tt := range tests {
		if got := c.Convert(tt.in, tt.target); got != tt.want {
			t.Errorf("Convert(%q, %d) = %q, want %q", tt.in, tt.target, got, tt.want)
		}
	}
}

func TestParseCase(t *testing.T) {
	for _, name := range CaseNames() {
		if _, err := ParseCase(name); err != nil {
			t.Errorf("ParseCase(%q) returned error: %v", name, err)
		}
	}

	if c, err := ParseCase(""); err != nil || c != CamelCase {
		t.Errorf("expected empty case to default to camel, got %v %v", c, err)
	}

	if _, err := ParseCase("title"); err == nil {
		t.Error("expected error for unknown case")
	}
}

func TestQuoteKey(t *testing.T) {
	tests := map[string]string{
		"name":       "name",
		"$schema":    "$schema",
		"first-name": "'first-name'",
		"2010-04-01": "'2010-04-01'",
		":petId":     "':petId'",
		"it's":       `'it\'s'`,
		"Calls.json": "'Calls.json'",
	}

	for in, want := range tests {
		if got := QuoteKey(in); got != want {
			t.Errorf("QuoteKey(%q) = %q, want %q", in, got, want)
		}
	}
}
