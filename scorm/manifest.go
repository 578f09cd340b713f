package scorm

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/jmcelroy/docent/models"
)

const scormVersion = "1.2"

// buildManifest renders imsmanifest.xml for a single-SCO package. Every
// organization item references the one webcontent resource; navigation and
// completion are handled by the player, not by manifest sequencing.
func buildManifest(course *models.Course, packageID string) string {
	var b strings.Builder

	fmt.Fprintf(&b, `<?xml version="1.0" encoding="UTF-8"?>
<manifest identifier="%s" version="1"
          xmlns="http://www.imsproject.org/xsd/imscp_rootv1p1p2"
          xmlns:adlcp="http://www.adlnet.org/xsd/adlcp_rootv1p2"
          xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"
          xsi:schemaLocation="http://www.imsproject.org/xsd/imscp_rootv1p1p2 imscp_rootv1p1p2.xsd
                              http://www.imsglobal.org/xsd/imsmd_rootv1p2p1 imsmd_rootv1p2p1.xsd
                              http://www.adlnet.org/xsd/adlcp_rootv1p2 adlcp_rootv1p2.xsd">

    <metadata>
        <schema>ADL SCORM</schema>
        <schemaversion>%s</schemaversion>
        <lom xmlns="http://www.imsglobal.org/xsd/imsmd_rootv1p2p1">
            <general>
                <identifier>
                    <catalog>URI</catalog>
                    <entry>%s</entry>
                </identifier>
                <title>
                    <langstring xml:lang="en">%s</langstring>
                </title>
                <description>
                    <langstring xml:lang="en">%s</langstring>
                </description>
                <language>%s</language>
            </general>
            <lifeCycle>
                <version>
                    <langstring xml:lang="en">%s</langstring>
                </version>
                <contribute>
                    <role>
                        <source>LOMv1.0</source>
                        <value>Author</value>
                    </role>
                    <entity>%s</entity>
                    <date>
                        <dateTime>%s</dateTime>
                    </date>
                </contribute>
            </lifeCycle>
        </lom>
    </metadata>

    <organizations default="default_org">
        <organization identifier="default_org">
            <title>%s</title>%s
        </organization>
    </organizations>

    <resources>
        <resource identifier="resource_1" type="webcontent" adlcp:scormtype="sco" href="index.html">
            <file href="index.html"/>
            <file href="scorm_wrapper.js"/>
            <file href="course_data.js"/>
            <file href="styles.css"/>%s
        </resource>
    </resources>

</manifest>
`,
		packageID,
		scormVersion,
		course.CourseID,
		EscapeXML(course.Title),
		EscapeXML(course.Description),
		course.Language,
		course.Version,
		EscapeXML(course.Author),
		course.CreatedAt.Format(time.RFC3339),
		EscapeXML(course.Title),
		buildItemsXML(course.OrderedTemplates()),
		buildAssetFilesXML(course.Assets),
	)

	return b.String()
}

func buildItemsXML(ordered []models.Template) string {
	var b strings.Builder
	for i, t := range ordered {
		fmt.Fprintf(&b, `
            <item identifier="item_%s_%d" identifierref="resource_1" isvisible="true">
                <title>%s</title>
            </item>`, t.ID, i, EscapeXML(t.Title))
	}
	return b.String()
}

func buildAssetFilesXML(assets []models.Asset) string {
	var b strings.Builder
	for _, a := range assets {
		filename := path.Base(a.Path)
		if filename == "." || filename == "/" || filename == "" {
			continue
		}
		fmt.Fprintf(&b, "\n            <file href=\"assets/%s\"/>", EscapeXML(filename))
	}
	return b.String()
}
