package types

const (
	CategoryEnvironment    = "environment"
	CategoryInfrastructure = "infrastructure"
	CategoryAgriculture    = "agriculture"
	CategoryWeather        = "weather"
	CategoryOther          = "other"
)

type Category struct {
	Slug  string
	Name  string
	Icon  string
	Count int
}

var Categories = []Category{
	{Slug: CategoryEnvironment, Name: "Environment", Icon: "leaf"},
	{Slug: CategoryInfrastructure, Name: "Infrastructure", Icon: "building"},
	{Slug: CategoryAgriculture, Name: "Agriculture", Icon: "sprout"},
	{Slug: CategoryWeather, Name: "Weather", Icon: "cloud-rain"},
	{Slug: CategoryOther, Name: "Other", Icon: "circle"},
}

func CategoryName(slug string) string {
	for _, c := range Categories {
		if c.Slug == slug {
			return c.Name
		}
	}
	return slug
}
