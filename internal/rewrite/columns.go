package rewrite

// columnTypes maps every known occurrence column to the SQL type its text
// value is cast to. It covers the Darwin Core terms plus the CARTO system
// columns.
var columnTypes = byType(map[string][]string{
	"text": {
		"acceptednameusage",
		"acceptednameusageid",
		"accessrights",
		"associatedmedia",
		"associatedoccurrences",
		"associatedreferences",
		"associatedsequences",
		"associatedtaxa",
		"basisofrecord",
		"bed",
		"behavior",
		"bibliographiccitation",
		"catalognumber",
		"class",
		"collectioncode",
		"collectionid",
		"continent",
		"country",
		"countrycode",
		"county",
		"datageneralizations",
		"datasetid",
		"datasetname",
		"dateidentified",
		"decimallongitude",
		"disposition",
		"dynamicproperties",
		"earliestageorloweststage",
		"earliesteonorlowesteonothem",
		"earliestepochorlowestseries",
		"earliesteraorlowesterathem",
		"earliestperiodorlowestsystem",
		"establishmentmeans",
		"eventdate",
		"eventid",
		"eventremarks",
		"eventtime",
		"family",
		"fieldnotes",
		"fieldnumber",
		"footprintspatialfit",
		"footprintsrs",
		"footprintwkt",
		"formation",
		"genus",
		"geodeticdatum",
		"geologicalcontextid",
		"georeferencedby",
		"georeferenceddate",
		"georeferenceprotocol",
		"georeferenceremarks",
		"georeferencesources",
		"georeferenceverificationstatus",
		"group",
		"habitat",
		"higherclassification",
		"highergeography",
		"highergeographyid",
		"highestbiostratigraphiczone",
		"id",
		"identificationid",
		"identificationqualifier",
		"identificationreferences",
		"identificationremarks",
		"identificationverificationstatus",
		"identifiedby",
		"individualcount",
		"individualid",
		"informationwithheld",
		"infraspecificepithet",
		"institutioncode",
		"institutionid",
		"island",
		"islandgroup",
		"kingdom",
		"language",
		"latestageorhigheststage",
		"latesteonorhighesteonothem",
		"latestepochorhighestseries",
		"latesteraorhighesterathem",
		"latestperiodorhighestsystem",
		"lifestage",
		"lithostratigraphicterms",
		"locality",
		"locationaccordingto",
		"locationid",
		"locationremarks",
		"lowestbiostratigraphiczone",
		"measurementaccuracy",
		"measurementdeterminedby",
		"measurementdetermineddate",
		"measurementid",
		"measurementmethod",
		"measurementremarks",
		"measurementtype",
		"measurementunit",
		"measurementvalue",
		"member",
		"modified",
		"municipality",
		"nameaccordingto",
		"nameaccordingtoid",
		"namepublishedin",
		"namepublishedinid",
		"namepublishedinyear",
		"nomenclaturalcode",
		"nomenclaturalstatus",
		"occurrenceid",
		"occurrenceremarks",
		"occurrencestatus",
		"order",
		"original",
		"originalnameusage",
		"originalnameusageid",
		"othercatalognumbers",
		"ownerinstitutioncode",
		"parentnameusage",
		"parentnameusageid",
		"phylum",
		"pointradiusspatialfit",
		"preparations",
		"previousidentifications",
		"recordedby",
		"recordnumber",
		"references",
		"relatedresourceid",
		"relationshipaccordingto",
		"relationshipestablisheddate",
		"relationshipofresource",
		"relationshipremarks",
		"reproductivecondition",
		"resourceid",
		"resourcerelationshipid",
		"rights",
		"rightsholder",
		"samplingeffort",
		"samplingprotocol",
		"scientificname",
		"scientificnameauthorship",
		"scientificnameid",
		"sex",
		"specificepithet",
		"stateprovince",
		"subgenus",
		"taxonconceptid",
		"taxonid",
		"taxonomicstatus",
		"taxonrank",
		"taxonremarks",
		"type",
		"typestatus",
		"verbatimcoordinates",
		"verbatimcoordinatesystem",
		"verbatimdepth",
		"verbatimelevation",
		"verbatimeventdate",
		"verbatimlatitude",
		"verbatimlocality",
		"verbatimlongitude",
		"verbatimsrs",
		"verbatimtaxonrank",
		"vernacularname",
		"waterbody",
	},
	"int4": {
		"cartodb_id",
		"day",
		"enddayofyear",
		"month",
		"startdayofyear",
		"year",
	},
	"numeric": {
		"coordinateprecision",
		"coordinateuncertaintyinmeters",
		"decimallatitude",
		"maximumdepthinmeters",
		"maximumdistanceabovesurfaceinmeters",
		"maximumelevationinmeters",
		"minimumdepthinmeters",
		"minimumdistanceabovesurfaceinmeters",
		"minimumelevationinmeters",
	},
	"float8": {
		"locations_cartodb_id",
		"names_cartodb_id",
	},
	"timestamp": {
		"created_at",
		"updated_at",
	},
	"geometry": {
		"the_geom",
		"the_geom_webmercator",
	},
})

func byType(groups map[string][]string) map[string]string {
	m := make(map[string]string)
	for typ, cols := range groups {
		for _, c := range cols {
			m[c] = typ
		}
	}
	return m
}
